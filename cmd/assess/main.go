// Command assess runs a single assessment from an invoice JSON file
// and prints the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/config"
	"github.com/crediflow/invoice-risk/internal/credit"
	"github.com/crediflow/invoice-risk/internal/identity"
	"github.com/crediflow/invoice-risk/internal/kyc"
	"github.com/crediflow/invoice-risk/internal/ledger"
	"github.com/crediflow/invoice-risk/internal/market"
	"github.com/crediflow/invoice-risk/internal/oracle"
	"github.com/crediflow/invoice-risk/internal/risk"
	"github.com/crediflow/invoice-risk/internal/textgen"
)

func main() {
	invoicePath := flag.String("invoice", "", "Path to invoice JSON file")
	markdown := flag.Bool("markdown", false, "Print the markdown report instead of JSON")
	flag.Parse()

	if *invoicePath == "" {
		log.Fatal("missing required flag -invoice")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatal(err)
	}
	logger := zap.L()
	defer logger.Sync()

	blob, err := os.ReadFile(*invoicePath)
	if err != nil {
		log.Fatal(err)
	}
	var inv risk.InvoiceData
	if err := json.Unmarshal(blob, &inv); err != nil {
		log.Fatalf("parse invoice: %v", err)
	}

	gen, err := textgen.NewGeneratorFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey)
	kycClient := kyc.NewClient(cfg.KYC.BaseURL, cfg.KYC.APIKey)
	ledgerClient := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIKey)

	riskCfg := risk.DefaultConfig()
	riskCfg.StageTimeout = time.Duration(cfg.Risk.StageTimeoutSecs) * time.Second
	riskCfg.NarrativeTimeout = time.Duration(cfg.Risk.NarrativeTimeoutSecs) * time.Second
	riskCfg.LedgerTimeout = time.Duration(cfg.Risk.LedgerTimeoutSecs) * time.Second

	orchestrator := risk.NewOrchestrator(riskCfg,
		credit.NewAnalyzer(oracleClient, logger.Named("credit")),
		identity.NewVerifier(kycClient, logger.Named("identity")),
		market.NewAnalyst(oracleClient, logger.Named("market")),
		gen,
		ledgerClient,
		logger.Named("risk"),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	assessment := orchestrator.AssessWithProgress(ctx, inv, func(status risk.Status, message string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", status, message)
	})

	if *markdown {
		fmt.Print(risk.BuildReportMarkdown(inv, assessment))
		return
	}
	out, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
