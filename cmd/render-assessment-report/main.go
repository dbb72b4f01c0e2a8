// Command render-assessment-report converts a saved assessment into a
// markdown or PDF report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/crediflow/invoice-risk/internal/report"
	"github.com/crediflow/invoice-risk/internal/risk"
)

type input struct {
	Invoice    risk.InvoiceData    `json:"invoice"`
	Assessment risk.RiskAssessment `json:"assessment"`
}

func main() {
	inputPath := flag.String("input", "", "Path to JSON file with invoice and assessment")
	outputPath := flag.String("output", "", "Path to write the report (defaults to stdout for markdown)")
	pdf := flag.Bool("pdf", false, "Render PDF via headless Chromium instead of markdown")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	blob, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	var in input
	if err := json.Unmarshal(blob, &in); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	if *pdf {
		if *outputPath == "" {
			log.Fatal("-output is required with -pdf")
		}
		renderer := report.NewChromiumPDFRenderer()
		out, err := renderer.Render(context.Background(), in.Invoice, in.Assessment)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
		return
	}

	markdown := risk.BuildReportMarkdown(in.Invoice, in.Assessment)
	if *outputPath == "" {
		fmt.Print(markdown)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(markdown), 0o644); err != nil {
		log.Fatalf("write markdown: %v", err)
	}
}
