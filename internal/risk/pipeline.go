package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the observable phase of one assessment run.
type Status string

const (
	StatusPending       Status = "pending"
	StatusStagesRunning Status = "stages_running"
	StatusSynthesizing  Status = "synthesizing"
	StatusFinalized     Status = "finalized"
)

// ProgressFn receives phase transitions while an assessment runs.
type ProgressFn func(status Status, message string)

// CreditAnalyzer produces the credit stage result for a buyer.
type CreditAnalyzer interface {
	AnalyzeCredit(ctx context.Context, buyer CompanyInfo) CreditResult
}

// IdentityVerifier produces the identity stage result for a buyer.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, buyer CompanyInfo) IdentityResult
}

// MarketAnalyst produces the market stage result for an industry and
// location.
type MarketAnalyst interface {
	AnalyzeMarket(ctx context.Context, industry, location string) MarketResult
}

// TextGenerator produces the assessment narrative from a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LedgerStore persists a decision digest and returns its reference.
type LedgerStore interface {
	Submit(ctx context.Context, d Digest) (string, error)
}

// Orchestrator runs the full assessment: concurrent stage fan-out,
// deterministic synthesis, then narrative generation and ledger
// anchoring side by side.
type Orchestrator struct {
	cfg      Config
	credit   CreditAnalyzer
	identity IdentityVerifier
	market   MarketAnalyst
	textgen  TextGenerator
	ledger   LedgerStore
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithTracer attaches a tracer; without it spans are no-ops.
func WithTracer(t trace.Tracer) Option { return func(o *Orchestrator) { o.tracer = t } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

func NewOrchestrator(cfg Config, credit CreditAnalyzer, identity IdentityVerifier, market MarketAnalyst, textgen TextGenerator, ledger LedgerStore, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		cfg:      cfg,
		credit:   credit,
		identity: identity,
		market:   market,
		textgen:  textgen,
		ledger:   ledger,
		log:      log,
		tracer:   noop.NewTracerProvider().Tracer("risk"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Assess runs one assessment end to end. It always returns a usable
// RiskAssessment: stage failures degrade individual factors, and any
// panic inside the run collapses to the manual-review assessment.
func (o *Orchestrator) Assess(ctx context.Context, inv InvoiceData) RiskAssessment {
	return o.AssessWithProgress(ctx, inv, nil)
}

func (o *Orchestrator) AssessWithProgress(ctx context.Context, inv InvoiceData, progress ProgressFn) (out RiskAssessment) {
	ctx, span := o.tracer.Start(ctx, "risk.assess", trace.WithAttributes(
		attribute.String("invoice.id", inv.ID),
		attribute.Float64("invoice.amount", inv.Amount),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("assessment panicked, returning manual-review assessment",
				zap.String("invoice_id", inv.ID), zap.Any("panic", r))
			out = o.degradedAssessment(inv)
			emit(progress, StatusFinalized, "Assessment finalized for manual review")
		}
	}()

	emit(progress, StatusPending, "Assessment accepted")
	log := o.log.With(zap.String("invoice_id", inv.ID))

	emit(progress, StatusStagesRunning, "Running credit, identity, and market analyses")
	credit, identity, market := o.runStages(ctx, inv, log)

	emit(progress, StatusSynthesizing, "Synthesizing risk assessment")
	now := o.now()
	factors, overall := BuildFactors(o.cfg, credit, identity, market, inv, now)
	level := LevelForScore(overall)

	var confidences []float64
	for _, sr := range []StageResult{credit.StageResult, identity.StageResult, market.StageResult} {
		if sr.OK {
			confidences = append(confidences, sr.Confidence)
		}
	}

	out = RiskAssessment{
		ID:             uuid.NewString(),
		InvoiceID:      inv.ID,
		OverallScore:   int(overall),
		RiskLevel:      level,
		Confidence:     BlendConfidence(confidences, o.cfg.FallbackConfidence),
		Recommendation: RecommendationForLevel(level),
		Factors:        factors,
		SuggestedTerms: TermsForScore(o.cfg, overall, inv.Amount, inv.PaymentTerms),
		CreatedAt:      now,
	}

	o.finalize(ctx, inv, &out, overall, log)

	span.SetAttributes(
		attribute.Int("risk.score", out.OverallScore),
		attribute.String("risk.level", string(out.RiskLevel)),
	)
	log.Info("assessment finalized",
		zap.Int("score", out.OverallScore),
		zap.String("level", string(out.RiskLevel)),
		zap.Float64("confidence", out.Confidence))
	emit(progress, StatusFinalized, "Assessment finalized")
	return out
}

// runStages fans the three upstream analyses out concurrently, each
// under its own timeout. The invoice stage needs no upstream call and
// is computed during synthesis.
func (o *Orchestrator) runStages(ctx context.Context, inv InvoiceData, log *zap.Logger) (CreditResult, IdentityResult, MarketResult) {
	var (
		credit   CreditResult
		identity IdentityResult
		market   MarketResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverStage(&err)
		sctx, cancel := context.WithTimeout(gctx, o.cfg.StageTimeout)
		defer cancel()
		sctx, span := o.tracer.Start(sctx, "risk.stage.credit")
		defer span.End()
		credit = o.credit.AnalyzeCredit(sctx, inv.Buyer)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverStage(&err)
		sctx, cancel := context.WithTimeout(gctx, o.cfg.StageTimeout)
		defer cancel()
		sctx, span := o.tracer.Start(sctx, "risk.stage.identity")
		defer span.End()
		identity = o.identity.VerifyIdentity(sctx, inv.Buyer)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverStage(&err)
		sctx, cancel := context.WithTimeout(gctx, o.cfg.StageTimeout)
		defer cancel()
		sctx, span := o.tracer.Start(sctx, "risk.stage.market")
		defer span.End()
		market = o.market.AnalyzeMarket(sctx, inv.Buyer.Industry, inv.Buyer.Location)
		return nil
	})
	// A panicking adapter is a synthesis failure, not a stage outage.
	// Re-raise on the caller's goroutine so the catch-all in
	// AssessWithProgress produces the manual-review assessment.
	if err := g.Wait(); err != nil {
		panic(err)
	}

	for _, s := range []struct {
		stage Stage
		res   StageResult
	}{
		{StageCredit, credit.StageResult},
		{StageIdentity, identity.StageResult},
		{StageMarket, market.StageResult},
	} {
		if !s.res.OK {
			log.Warn("stage unavailable", zap.String("stage", string(s.stage)), zap.String("reason", s.res.Reason))
		}
	}
	return credit, identity, market
}

// finalize runs narrative generation and ledger submission side by
// side. Neither outcome changes the scored assessment; a narrative
// failure substitutes the deterministic fallback and a ledger failure
// leaves LedgerRef empty.
func (o *Orchestrator) finalize(ctx context.Context, inv InvoiceData, a *RiskAssessment, overall float64, log *zap.Logger) {
	var g errgroup.Group

	g.Go(func() (err error) {
		defer recoverStage(&err)
		nctx, cancel := context.WithTimeout(ctx, o.cfg.NarrativeTimeout)
		defer cancel()
		text, genErr := o.textgen.Generate(nctx, NarrativePrompt(inv, overall, a.RiskLevel, a.Factors))
		if genErr != nil || text == "" {
			if genErr != nil {
				log.Warn("narrative generation failed, using fallback", zap.Error(genErr))
			}
			return nil
		}
		a.Narrative = text
		return nil
	})

	g.Go(func() (err error) {
		defer recoverStage(&err)
		lctx, cancel := context.WithTimeout(ctx, o.cfg.LedgerTimeout)
		defer cancel()
		ref, subErr := o.ledger.Submit(lctx, Digest{
			InvoiceID:   inv.ID,
			Score:       a.OverallScore,
			RiskLevel:   a.RiskLevel,
			Timestamp:   a.CreatedAt.Unix(),
			FactorCount: len(a.Factors),
		})
		if subErr != nil {
			log.Warn("ledger submission failed, assessment continues unanchored", zap.Error(subErr))
			return nil
		}
		a.LedgerRef = ref
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("finalization step panicked", zap.Error(err))
	}
	if a.Narrative == "" {
		a.Narrative = FallbackNarrative(overall, a.RiskLevel, a.Factors)
	}
}

// degradedAssessment is the terminal fallback when synthesis itself
// fails. It is a complete, conservative assessment routed to manual
// review, never an error.
func (o *Orchestrator) degradedAssessment(inv InvoiceData) RiskAssessment {
	now := o.now()
	return RiskAssessment{
		ID:             uuid.NewString(),
		InvoiceID:      inv.ID,
		OverallScore:   60,
		RiskLevel:      LevelMedium,
		Confidence:     0.40,
		Recommendation: "MANUAL REVIEW REQUIRED - System analysis incomplete",
		Factors: []RiskFactor{{
			Name:        "System Error",
			Score:       60,
			Weight:      1.0,
			Impact:      ImpactNeutral,
			Description: "Unable to complete full risk analysis",
		}},
		Narrative: "Automated risk assessment unavailable, manual review recommended",
		SuggestedTerms: SuggestedTerms{
			InterestRate:       12.0,
			CollateralRequired: true,
			CreditLimit:        inv.Amount,
			PaymentTerms:       inv.PaymentTerms,
			AdvanceRate:        70,
		},
		CreatedAt: now,
	}
}

func recoverStage(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("stage panic: %v", r)
	}
}

func emit(progress ProgressFn, status Status, message string) {
	if progress != nil {
		progress(status, message)
	}
}
