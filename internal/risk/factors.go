package risk

import (
	"fmt"
	"time"
)

// impactFor classifies a sub-score against the neutral band.
func impactFor(score float64) Impact {
	switch {
	case score < 35:
		return ImpactPositive
	case score > 55:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// BuildFactors converts the four stage outcomes into the ordered factor
// list and the weighted overall score. Order is fixed: credit,
// identity, market, invoice. An unavailable stage emits no factor but
// still contributes its configured default sub-score at full weight to
// the overall score.
func BuildFactors(cfg Config, credit CreditResult, identity IdentityResult, market MarketResult, inv InvoiceData, now time.Time) ([]RiskFactor, float64) {
	factors := make([]RiskFactor, 0, 4)

	creditScore := cfg.Defaults.Credit
	if credit.OK {
		creditScore = CreditRiskScore(credit.Profile.CreditScore)
		factors = append(factors, RiskFactor{
			Name:        "Credit Worthiness",
			Score:       creditScore,
			Weight:      cfg.Weights.Credit,
			Impact:      impactFor(creditScore),
			Description: fmt.Sprintf("Credit score %d (%s), payment history %.0f%% on time",
				credit.Profile.CreditScore, credit.Profile.Rating, credit.Profile.OnTimePaymentRate*100),
		})
	}

	identityScore := cfg.Defaults.Identity
	if identity.OK {
		v := identity.Verification
		identityScore = IdentityRiskScore(v.TrustScore, len(v.RiskFlags))
		factors = append(factors, RiskFactor{
			Name:        "Identity Verification",
			Score:       identityScore,
			Weight:      cfg.Weights.Identity,
			Impact:      impactFor(identityScore),
			Description: fmt.Sprintf("Trust score %d, KYC level %s, %d risk flag(s)",
				v.TrustScore, v.KYCLevel, len(v.RiskFlags)),
		})
	}

	marketScore := cfg.Defaults.Market
	if market.OK {
		m := market.Intelligence
		marketScore = MarketRiskScore(m)
		factors = append(factors, RiskFactor{
			Name:        "Market Conditions",
			Score:       marketScore,
			Weight:      cfg.Weights.Market,
			Impact:      impactFor(marketScore),
			Description: fmt.Sprintf("Industry growth %.1f%%, %s volatility, %s outlook",
				m.IndustryGrowthRate, m.MarketVolatility, m.EconomicOutlook),
		})
	}

	invoiceScore := InvoiceRiskScore(inv, now)
	factors = append(factors, RiskFactor{
		Name:        "Invoice Characteristics",
		Score:       invoiceScore,
		Weight:      cfg.Weights.Invoice,
		Impact:      impactFor(invoiceScore),
		Description: fmt.Sprintf("Amount %.2f %s, terms %q", inv.Amount, inv.Currency, inv.PaymentTerms),
	})

	overall := creditScore*cfg.Weights.Credit +
		identityScore*cfg.Weights.Identity +
		marketScore*cfg.Weights.Market +
		invoiceScore*cfg.Weights.Invoice
	return factors, overall
}
