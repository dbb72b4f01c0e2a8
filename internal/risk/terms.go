package risk

// TermsForScore derives the financing proposal from the overall score
// and the invoice amount. The invoice's own payment terms pass through
// unchanged. Pure: equal inputs always produce identical terms.
func TermsForScore(cfg Config, score float64, amount float64, paymentTerms string) SuggestedTerms {
	level := LevelForScore(score)

	var premium float64
	switch level {
	case LevelVeryLow:
		premium = 0.5
	case LevelLow:
		premium = 1.0
	case LevelMedium:
		premium = 2.0
	case LevelHigh:
		premium = 4.0
	default:
		premium = 8.0
	}

	limit := amount * 2
	switch {
	case score > 55:
		limit = amount * 2 * 0.5
	case score > 35:
		limit = amount * 2 * 0.75
	}

	advance := 100 - score
	if advance > 90 {
		advance = 90
	}
	if advance < 70 {
		advance = 70
	}

	return SuggestedTerms{
		InterestRate:       cfg.BaseInterestRate + premium,
		CollateralRequired: score > 55,
		CreditLimit:        limit,
		PaymentTerms:       paymentTerms,
		AdvanceRate:        advance,
	}
}
