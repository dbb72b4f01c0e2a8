package risk

import (
	"strings"
	"time"
)

// CreditRiskScore maps a bureau-style credit score onto the 0-100 risk
// scale via a step table. Higher credit score, lower risk.
func CreditRiskScore(creditScore int) float64 {
	switch {
	case creditScore >= 750:
		return 10
	case creditScore >= 700:
		return 20
	case creditScore >= 650:
		return 35
	case creditScore >= 600:
		return 50
	case creditScore >= 550:
		return 70
	default:
		return 85
	}
}

// IdentityRiskScore inverts the trust score and adds a capped penalty
// per outstanding risk flag.
func IdentityRiskScore(trustScore int, flagCount int) float64 {
	penalty := float64(flagCount) * 10
	if penalty > 30 {
		penalty = 30
	}
	return clampScore(float64(100-trustScore) + penalty)
}

// MarketRiskScore starts from a neutral 50 and adjusts for industry
// growth, volatility, economic outlook, and geographic exposure.
func MarketRiskScore(m MarketIntelligence) float64 {
	score := 50.0

	switch {
	case m.IndustryGrowthRate > 10:
		score -= 15
	case m.IndustryGrowthRate > 5:
		score -= 10
	case m.IndustryGrowthRate < 0:
		score += 20
	}

	switch strings.ToLower(m.MarketVolatility) {
	case "low":
		score -= 10
	case "high":
		score += 15
	}

	switch strings.ToLower(m.EconomicOutlook) {
	case "positive":
		score -= 10
	case "negative":
		score += 15
	}

	score += 0.3 * (float64(m.GeographicRiskScore) - 50)

	return clampScore(score)
}

// InvoiceRiskScore scores the invoice's intrinsic characteristics:
// amount, stated payment terms, and time to due date. It needs no
// upstream data and always succeeds.
func InvoiceRiskScore(inv InvoiceData, now time.Time) float64 {
	score := 30.0

	switch {
	case inv.Amount > 500_000:
		score += 15
	case inv.Amount > 100_000:
		score += 10
	case inv.Amount < 10_000:
		// Very small invoices correlate with thin trading histories.
		score += 5
	}

	terms := inv.PaymentTerms
	switch {
	case strings.Contains(terms, "60") || strings.Contains(terms, "90"):
		score += 10
	case strings.Contains(terms, "30"):
		// Standard terms.
	case strings.Contains(terms, "15"):
		score -= 5
	}

	days := int(inv.DueDate.Sub(now).Hours() / 24)
	switch {
	case days > 90:
		score += 15
	case days > 60:
		score += 10
	case days < 15:
		// Unusually short runway reads as distress, not safety.
		score += 5
	}

	return clampScore(score)
}

// LevelForScore buckets the overall score into its risk band.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score <= 20:
		return LevelVeryLow
	case score <= 35:
		return LevelLow
	case score <= 55:
		return LevelMedium
	case score <= 75:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// RecommendationForLevel returns the standing recommendation text for a
// risk band.
func RecommendationForLevel(level RiskLevel) string {
	switch level {
	case LevelVeryLow:
		return "APPROVE - Excellent risk profile, standard terms recommended"
	case LevelLow:
		return "APPROVE - Good risk profile, standard terms acceptable"
	case LevelMedium:
		return "APPROVE WITH CONDITIONS - Moderate risk, consider enhanced terms"
	case LevelHigh:
		return "REVIEW REQUIRED - High risk, manual assessment recommended"
	default:
		return "DECLINE - Very high risk, recommend rejection"
	}
}

// BlendConfidence averages the confidences of the stages that
// succeeded. With no successful stage it falls back to the configured
// floor.
func BlendConfidence(confidences []float64, fallback float64) float64 {
	if len(confidences) == 0 {
		return fallback
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	return sum / float64(len(confidences))
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
