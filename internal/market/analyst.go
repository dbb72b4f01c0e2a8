// Package market turns oracle market snapshots into the market stage
// of a risk assessment.
package market

import (
	"context"

	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/oracle"
	"github.com/crediflow/invoice-risk/internal/risk"
)

const resultConfidence = 0.80

// SnapshotSource supplies market conditions per industry and location.
type SnapshotSource interface {
	GetMarketSnapshot(ctx context.Context, industry, location string) (oracle.MarketSnapshot, error)
}

type Analyst struct {
	src SnapshotSource
	log *zap.Logger
}

func NewAnalyst(src SnapshotSource, log *zap.Logger) *Analyst {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyst{src: src, log: log}
}

// AnalyzeMarket fetches conditions for the buyer's industry and derives
// sector health and economic outlook.
func (a *Analyst) AnalyzeMarket(ctx context.Context, industry, location string) risk.MarketResult {
	snap, err := a.src.GetMarketSnapshot(ctx, industry, location)
	if err != nil {
		a.log.Warn("market snapshot fetch failed", zap.String("industry", industry), zap.Error(err))
		return risk.MarketUnavailable("market data unavailable: " + err.Error())
	}

	return risk.MarketResult{
		StageResult: risk.StageResult{OK: true, Confidence: resultConfidence},
		Intelligence: risk.MarketIntelligence{
			IndustryGrowthRate:  snap.IndustryGrowthRate,
			MarketVolatility:    snap.Volatility,
			EconomicOutlook:     Outlook(snap),
			SectorHealth:        SectorHealth(snap),
			GeographicRiskScore: snap.GeographicRiskScore,
			SupplyChainStatus:   snap.SupplyChainStatus,
		},
	}
}

// SectorHealth scores the sector on growth, stability, employment, and
// investment flows, then converts to a descriptive band.
func SectorHealth(snap oracle.MarketSnapshot) string {
	score := 0

	switch {
	case snap.IndustryGrowthRate > 10:
		score += 40
	case snap.IndustryGrowthRate > 5:
		score += 30
	case snap.IndustryGrowthRate > 0:
		score += 20
	}

	switch snap.Volatility {
	case "Low":
		score += 30
	case "Medium":
		score += 20
	default:
		score += 10
	}

	switch snap.EmploymentTrend {
	case "Growing":
		score += 20
	case "Stable":
		score += 15
	default:
		score += 5
	}

	switch snap.InvestmentFlow {
	case "Positive":
		score += 10
	case "Neutral":
		score += 5
	}

	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

// Outlook derives the economic outlook from macro growth.
func Outlook(snap oracle.MarketSnapshot) string {
	switch {
	case snap.GDPGrowth > 3:
		return "Positive"
	case snap.GDPGrowth < 0:
		return "Negative"
	default:
		return "Neutral"
	}
}
