// Package report renders assessment reports as PDF via headless
// Chromium.
package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/crediflow/invoice-risk/internal/risk"
)

type ChromiumPDFRenderer struct {
	chromePath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{chromePath: detectChromePath()}
}

// Render converts the assessment's markdown report to PDF.
func (r *ChromiumPDFRenderer) Render(ctx context.Context, inv risk.InvoiceData, a risk.RiskAssessment) ([]byte, error) {
	htmlDoc, err := buildHTML(inv, a)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;padding-right:8px;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func buildHTML(inv risk.InvoiceData, a risk.RiskAssessment) (string, error) {
	markdown := risk.BuildReportMarkdown(inv, a)

	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	badge := "<span class='report-badge'>" + html.EscapeString(string(a.RiskLevel)) + "</span>"
	meta := "<div><strong>Invoice:</strong> " + html.EscapeString(a.InvoiceID) + "</div>" +
		"<div><strong>Assessed:</strong> " + html.EscapeString(a.CreatedAt.Format("January 2, 2006 at 3:04 PM MST")) + "</div>"

	return "<!doctype html><html><head><meta charset='utf-8'><title>Risk Assessment Report</title>" +
		"<style>" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{font-family:Georgia,serif;background:#fff;padding:0.6rem;color:#1c1917;} " +
		".pdf-wrap{max-width:1000px;margin:0 auto;border-left:3px solid #1e3a5f;border-right:3px solid #1e3a5f;padding:0 0.65rem;} " +
		".report-badge{display:inline-block;background:#e0ecf7;color:#1e3a5f;border:1px solid #93b8dc;border-radius:4px;padding:0.15rem 0.5rem;font-size:0.8rem;font-weight:700;} " +
		".report-meta{color:#44403c;font-size:0.85rem;margin-bottom:0.5rem;} " +
		"table{width:100% !important;border-collapse:collapse !important;border:1px solid #a8a29e !important;font-size:0.8rem !important;} " +
		"th,td{border:1px solid #a8a29e !important;padding:0.35rem 0.45rem !important;text-align:left !important;vertical-align:top !important;} " +
		"thead th{background:#f1f5f9 !important;font-weight:700 !important;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .pdf-wrap{max-width:none;} }" +
		"</style></head><body>" +
		"<div class='pdf-wrap'><div class='report-meta'>" + meta + "</div>" +
		"<div class='report-badges'>" + badge + "</div>" +
		"<div class='report-html'>" + content.String() + "</div></div>" +
		"</body></html>", nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
