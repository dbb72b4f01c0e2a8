package risk

import (
	"strings"
	"testing"
	"time"
)

func TestBuildReportMarkdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now)
	a := RiskAssessment{
		ID:             "a-1",
		InvoiceID:      inv.ID,
		OverallScore:   22,
		RiskLevel:      LevelLow,
		Confidence:     0.85,
		Recommendation: RecommendationForLevel(LevelLow),
		Factors: []RiskFactor{
			{Name: "Credit Worthiness", Score: 20, Weight: 0.40, Impact: ImpactPositive, Description: "Credit score 720 (A)"},
		},
		Narrative:      "Low risk buyer.",
		SuggestedTerms: TermsForScore(DefaultConfig(), 22, inv.Amount, inv.PaymentTerms),
		LedgerRef:      "0xabc",
		CreatedAt:      now,
	}

	md := BuildReportMarkdown(inv, a)

	for _, want := range []string{
		"# Invoice Risk Assessment",
		"**22/100** (`LOW`)",
		"Acme Manufacturing",
		"| Credit Worthiness | 20 | 40% | POSITIVE |",
		"Ledger reference: `0xabc`",
		"Low risk buyer.",
		"## Suggested Terms",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestBuildReportMarkdownUnanchored(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now)
	a := RiskAssessment{ID: "a-2", InvoiceID: inv.ID, RiskLevel: LevelMedium, CreatedAt: now}
	md := BuildReportMarkdown(inv, a)
	if !strings.Contains(md, "Ledger reference: not anchored") {
		t.Fatal("unanchored assessment should say so")
	}
}

func TestFmtAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1000, "1,000.00"},
		{1234567.5, "1,234,567.50"},
		{-50000, "-50,000.00"},
	}
	for _, c := range cases {
		if got := fmtAmount(c.in); got != c.want {
			t.Errorf("fmtAmount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
