// Package credit turns oracle financial profiles into the credit stage
// of a risk assessment.
package credit

import (
	"context"

	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/oracle"
	"github.com/crediflow/invoice-risk/internal/risk"
)

// resultConfidence applies when the oracle responded and a full profile
// was computed.
const resultConfidence = 0.85

// ProfileSource supplies company financial profiles.
type ProfileSource interface {
	GetCompanyProfile(ctx context.Context, name, taxID string) (oracle.CompanyProfile, error)
}

type Analyzer struct {
	src ProfileSource
	log *zap.Logger
}

func NewAnalyzer(src ProfileSource, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{src: src, log: log}
}

// AnalyzeCredit fetches the buyer's financial profile and scores it.
// Any fetch failure, including a timed-out context, yields the
// unavailable variant.
func (a *Analyzer) AnalyzeCredit(ctx context.Context, buyer risk.CompanyInfo) risk.CreditResult {
	p, err := a.src.GetCompanyProfile(ctx, buyer.Name, buyer.TaxID)
	if err != nil {
		a.log.Warn("credit profile fetch failed", zap.String("company", buyer.Name), zap.Error(err))
		return risk.CreditUnavailable("credit data unavailable: " + err.Error())
	}

	score := Score(p)
	return risk.CreditResult{
		StageResult: risk.StageResult{OK: true, Confidence: resultConfidence},
		Profile: risk.CreditProfile{
			CreditScore: score,
			Rating:      Rating(score),
			Metrics: risk.FinancialMetrics{
				Revenue:      p.Revenue,
				GrowthRate:   p.GrowthRate,
				NetMargin:    p.NetMargin,
				CurrentRatio: p.CurrentRatio,
				DebtToEquity: p.DebtToEquity,
				CashReserves: p.CashReserves,
			},
			PaymentHistoryScore: p.PaymentHistoryScore,
			OnTimePaymentRate:   p.OnTimeRate,
			LatePaymentsCount:   p.LatePayments,
		},
	}
}

// Score computes a bureau-style credit score in [300, 850] from the
// oracle profile. Payment history dominates; financial strength, credit
// utilization, history length, and credit mix add fixed bonuses.
func Score(p oracle.CompanyProfile) int {
	score := 300

	score += int(p.PaymentHistoryScore * 0.35 * 7)

	if p.Revenue > 1_000_000 {
		score += 50
	}
	if p.GrowthRate > 10 {
		score += 40
	}

	switch {
	case p.CreditUtilization < 30:
		score += 100
	case p.CreditUtilization < 60:
		score += 50
	}

	if p.CreditHistoryMonths > 60 {
		score += 50
	}
	if p.CreditTypes >= 3 {
		score += 25
	}

	if score > 850 {
		score = 850
	}
	if score < 300 {
		score = 300
	}
	return score
}

// Rating converts a numeric credit score to its letter rating.
func Rating(score int) string {
	switch {
	case score >= 800:
		return "AAA"
	case score >= 750:
		return "AA"
	case score >= 700:
		return "A"
	case score >= 650:
		return "BBB"
	case score >= 600:
		return "BB"
	case score >= 550:
		return "B"
	default:
		return "CCC"
	}
}
