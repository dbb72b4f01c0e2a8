package risk

import (
	"math"
	"testing"
	"time"
)

func testInvoice(now time.Time) InvoiceData {
	return InvoiceData{
		ID:           "INV-100",
		Amount:       50_000,
		Currency:     "USD",
		DueDate:      now.AddDate(0, 0, 30),
		PaymentTerms: "NET45",
		Buyer:        CompanyInfo{Name: "Acme Manufacturing", TaxID: "12-3456789", Industry: "Manufacturing", Location: "Germany"},
		Seller:       CompanyInfo{Name: "Widget Supply Co", TaxID: "98-7654321"},
	}
}

func okCredit() CreditResult {
	return CreditResult{
		StageResult: StageResult{OK: true, Confidence: 0.85},
		Profile:     CreditProfile{CreditScore: 720, Rating: "A", OnTimePaymentRate: 0.95},
	}
}

func okIdentity() IdentityResult {
	return IdentityResult{
		StageResult:  StageResult{OK: true, Confidence: 0.9},
		Verification: IdentityVerification{Verified: true, KYCLevel: "FULL", TrustScore: 85},
	}
}

func okMarket() MarketResult {
	return MarketResult{
		StageResult:  StageResult{OK: true, Confidence: 0.8},
		Intelligence: MarketIntelligence{IndustryGrowthRate: 6, MarketVolatility: "Low", EconomicOutlook: "Neutral", GeographicRiskScore: 50},
	}
}

func TestBuildFactorsOrderAndWeights(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	factors, _ := BuildFactors(DefaultConfig(), okCredit(), okIdentity(), okMarket(), testInvoice(now), now)

	if len(factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(factors))
	}
	wantNames := []string{"Credit Worthiness", "Identity Verification", "Market Conditions", "Invoice Characteristics"}
	wantWeights := []float64{0.40, 0.25, 0.20, 0.15}
	for i, f := range factors {
		if f.Name != wantNames[i] {
			t.Errorf("factor %d name = %q, want %q", i, f.Name, wantNames[i])
		}
		if f.Weight != wantWeights[i] {
			t.Errorf("factor %d weight = %v, want %v", i, f.Weight, wantWeights[i])
		}
	}
}

func TestBuildFactorsAllStagesUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	factors, overall := BuildFactors(cfg,
		CreditUnavailable("oracle down"),
		IdentityUnavailable("kyc down"),
		MarketUnavailable("oracle down"),
		testInvoice(now), now)

	// Defaults keep full weight; nothing renormalizes.
	want := 70*0.40 + 80*0.25 + 60*0.20 + 30*0.15
	if math.Abs(overall-want) > 1e-9 {
		t.Fatalf("overall = %v, want %v", overall, want)
	}
	// Unavailable stages emit no factor; the invoice factor is always
	// computed from invoice fields.
	if len(factors) != 1 {
		t.Fatalf("expected only the invoice factor, got %d factors", len(factors))
	}
	if factors[0].Name != "Invoice Characteristics" || factors[0].Score != 30 {
		t.Fatalf("invoice factor = %+v", factors[0])
	}
}

func TestBuildFactorsIdentityUnavailableOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	factors, overall := BuildFactors(DefaultConfig(), okCredit(), IdentityUnavailable("timeout"), okMarket(), testInvoice(now), now)

	// The failed stage drops out of the audit trail but its default
	// still weighs into the score.
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}
	wantNames := []string{"Credit Worthiness", "Market Conditions", "Invoice Characteristics"}
	for i, f := range factors {
		if f.Name != wantNames[i] {
			t.Errorf("factor %d name = %q, want %q", i, f.Name, wantNames[i])
		}
	}
	// credit 720 -> 20, identity default 80, market: 50-10-10 = 30, invoice 30
	want := 20*0.40 + 80*0.25 + 30*0.20 + 30*0.15
	if math.Abs(overall-want) > 1e-9 {
		t.Fatalf("overall = %v, want %v", overall, want)
	}
}

func TestImpactBands(t *testing.T) {
	if impactFor(34.9) != ImpactPositive {
		t.Error("score 34.9 should be POSITIVE")
	}
	if impactFor(35) != ImpactNeutral {
		t.Error("score 35 should be NEUTRAL")
	}
	if impactFor(55) != ImpactNeutral {
		t.Error("score 55 should be NEUTRAL")
	}
	if impactFor(55.5) != ImpactNegative {
		t.Error("score 55.5 should be NEGATIVE")
	}
}
