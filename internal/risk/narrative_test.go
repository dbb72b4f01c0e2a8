package risk

import (
	"strings"
	"testing"
	"time"
)

func TestNarrativePrompt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now)
	factors := []RiskFactor{
		{Name: "Credit Worthiness", Score: 20, Weight: 0.40, Impact: ImpactPositive, Description: "Credit score 720 (A)"},
		{Name: "Invoice Characteristics", Score: 30, Weight: 0.15, Impact: ImpactNeutral, Description: "Amount 50000.00 USD"},
	}

	prompt := NarrativePrompt(inv, 24, LevelLow, factors)

	for _, want := range []string{
		inv.ID,
		"Overall risk score: 24/100 (LOW)",
		"- Credit Worthiness: score 20, weight 40%, positive.",
		"- Invoice Characteristics: score 30, weight 15%, neutral.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFallbackNarrative(t *testing.T) {
	factors := []RiskFactor{
		{Name: "Credit Worthiness", Score: 20, Weight: 0.40},
		{Name: "Identity Verification", Score: 80, Weight: 0.25},
	}
	got := FallbackNarrative(42, LevelMedium, factors)
	if !strings.Contains(got, "Risk score of 42.0 (MEDIUM) based on weighted analysis of credit, identity, market, and invoice factors") {
		t.Errorf("missing weighted-analysis summary: %q", got)
	}
	// 80*0.25 > 20*0.40, so identity dominates.
	if !strings.Contains(got, "dominant factor Identity Verification (score 80)") {
		t.Errorf("wrong dominant factor: %q", got)
	}
}

func TestFallbackNarrativeNoFactors(t *testing.T) {
	got := FallbackNarrative(60, LevelHigh, nil)
	if !strings.Contains(got, "no contributing factors recorded") {
		t.Errorf("empty-factor fallback wrong: %q", got)
	}
}
