package risk

import "time"

// Weights distributes the overall score across the four dimensions.
// The canonical weights sum to 1.0; when a stage is unavailable its
// default sub-score keeps the full weight rather than renormalizing,
// so a two-stage outage shifts the score toward the neutral defaults
// instead of amplifying the surviving stages.
type Weights struct {
	Credit   float64
	Identity float64
	Market   float64
	Invoice  float64
}

// Defaults are the neutral sub-scores substituted for unavailable
// stages. Invoice has no default: it is computed from the invoice
// fields alone and cannot be unavailable.
type Defaults struct {
	Credit   float64
	Identity float64
	Market   float64
}

// Config carries every tunable of the synthesis. Zero-value Config is
// not usable; construct with DefaultConfig and override fields as
// needed.
type Config struct {
	Weights  Weights
	Defaults Defaults

	// FallbackConfidence applies when no stage succeeded.
	FallbackConfidence float64

	// BaseInterestRate is the anchor the per-band premium is added to.
	BaseInterestRate float64

	// StageTimeout bounds each upstream analysis call.
	StageTimeout time.Duration
	// NarrativeTimeout bounds the post-synthesis narrative generation.
	NarrativeTimeout time.Duration
	// LedgerTimeout bounds the digest submission.
	LedgerTimeout time.Duration
}

// DefaultConfig returns the canonical configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Credit:   0.40,
			Identity: 0.25,
			Market:   0.20,
			Invoice:  0.15,
		},
		Defaults: Defaults{
			Credit:   70,
			Identity: 80,
			Market:   60,
		},
		FallbackConfidence: 0.60,
		BaseInterestRate:   8.0,
		StageTimeout:       30 * time.Second,
		NarrativeTimeout:   20 * time.Second,
		LedgerTimeout:      10 * time.Second,
	}
}
