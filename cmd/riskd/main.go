package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/config"
	"github.com/crediflow/invoice-risk/internal/credit"
	"github.com/crediflow/invoice-risk/internal/httpapi"
	"github.com/crediflow/invoice-risk/internal/identity"
	"github.com/crediflow/invoice-risk/internal/kyc"
	"github.com/crediflow/invoice-risk/internal/ledger"
	"github.com/crediflow/invoice-risk/internal/market"
	"github.com/crediflow/invoice-risk/internal/observability"
	"github.com/crediflow/invoice-risk/internal/oracle"
	"github.com/crediflow/invoice-risk/internal/risk"
	"github.com/crediflow/invoice-risk/internal/store"
	"github.com/crediflow/invoice-risk/internal/textgen"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := zap.L()
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.InitTracing(ctx, "riskd", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	gen, err := textgen.NewGeneratorFromEnv()
	if err != nil {
		log.Fatal("init narrative generator", zap.Error(err))
	}

	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey)
	kycClient := kyc.NewClient(cfg.KYC.BaseURL, cfg.KYC.APIKey)
	ledgerClient := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIKey)

	riskCfg := risk.DefaultConfig()
	riskCfg.StageTimeout = time.Duration(cfg.Risk.StageTimeoutSecs) * time.Second
	riskCfg.NarrativeTimeout = time.Duration(cfg.Risk.NarrativeTimeoutSecs) * time.Second
	riskCfg.LedgerTimeout = time.Duration(cfg.Risk.LedgerTimeoutSecs) * time.Second

	orchestrator := risk.NewOrchestrator(riskCfg,
		credit.NewAnalyzer(oracleClient, log.Named("credit")),
		identity.NewVerifier(kycClient, log.Named("identity")),
		market.NewAnalyst(oracleClient, log.Named("market")),
		gen,
		ledgerClient,
		log.Named("risk"),
		risk.WithTracer(otel.Tracer("riskd")),
	)

	handler := httpapi.NewServer(orchestrator, st, log.Named("http"))
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("riskd listening", zap.Int("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
