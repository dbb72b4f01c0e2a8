// Package identity turns KYC verification records into the identity
// stage of a risk assessment.
package identity

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/kyc"
	"github.com/crediflow/invoice-risk/internal/risk"
)

// fallbackConfidence applies when the provider omits a confidence.
const fallbackConfidence = 0.75

// highRiskLocations flag any buyer located in a sanctioned or
// embargoed jurisdiction.
var highRiskLocations = []string{"afghanistan", "north korea", "iran", "syria"}

// RecordSource supplies business verification records.
type RecordSource interface {
	VerifyBusiness(ctx context.Context, name, taxID, location string) (kyc.VerificationRecord, error)
}

type Verifier struct {
	src RecordSource
	log *zap.Logger
	now func() time.Time
}

func NewVerifier(src RecordSource, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{src: src, log: log, now: time.Now}
}

// VerifyIdentity runs the KYC check and derives trust, compliance,
// risk-flag, and fraud signals from the raw record.
func (v *Verifier) VerifyIdentity(ctx context.Context, buyer risk.CompanyInfo) risk.IdentityResult {
	rec, err := v.src.VerifyBusiness(ctx, buyer.Name, buyer.TaxID, buyer.Location)
	if err != nil {
		v.log.Warn("business verification failed", zap.String("company", buyer.Name), zap.Error(err))
		return risk.IdentityUnavailable("identity verification unavailable: " + err.Error())
	}

	confidence := rec.Confidence
	if confidence <= 0 {
		confidence = fallbackConfidence
	}

	return risk.IdentityResult{
		StageResult: risk.StageResult{OK: true, Confidence: confidence},
		Verification: risk.IdentityVerification{
			Verified:             rec.Verified,
			KYCLevel:             rec.KYCLevel,
			TrustScore:           TrustScore(rec),
			ComplianceScore:      ComplianceScore(rec),
			DocumentVerification: rec.DocumentVerification,
			RiskFlags:            RiskFlags(rec, buyer, v.now()),
			Fraud:                FraudRisk(rec),
		},
	}
}

// TrustScore blends document verification, KYC depth, provider
// confidence, and historical performance into a 0-100 trust score.
func TrustScore(rec kyc.VerificationRecord) int {
	var score float64

	verified := 0
	total := len(rec.DocumentVerification)
	for _, ok := range rec.DocumentVerification {
		if ok {
			verified++
		}
	}
	if total == 0 {
		total = 1
	}
	score += float64(verified) / float64(total) * 40

	switch strings.ToUpper(rec.KYCLevel) {
	case "FULL":
		score += 30
	case "ENHANCED":
		score += 25
	case "BASIC":
		score += 15
	}

	score += rec.Confidence * 20
	score += rec.HistoryScore / 100 * 10

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

// ComplianceScore grants 25 points per satisfied regulatory check.
func ComplianceScore(rec kyc.VerificationRecord) int {
	score := 0
	if rec.AMLCompliant {
		score += 25
	}
	if rec.KYCCompliant {
		score += 25
	}
	if rec.DocumentsAuthentic {
		score += 25
	}
	if rec.SanctionsClear {
		score += 25
	}
	return score
}

// RiskFlags returns the human-readable flags raised by the record and
// the company's own attributes.
func RiskFlags(rec kyc.VerificationRecord, buyer risk.CompanyInfo, now time.Time) []string {
	var flags []string
	if !rec.DocumentsAuthentic {
		flags = append(flags, "Document authenticity concerns")
	}
	if rec.SanctionsHit {
		flags = append(flags, "Sanctions list match found")
	}
	if buyer.RegistrationDate != nil && now.Sub(*buyer.RegistrationDate) < 90*24*time.Hour {
		flags = append(flags, "Recently registered company")
	}
	loc := strings.ToLower(buyer.Location)
	for _, hr := range highRiskLocations {
		if strings.Contains(loc, hr) {
			flags = append(flags, "High-risk geographic location")
			break
		}
	}
	if rec.Confidence < 0.70 {
		flags = append(flags, "Low verification confidence")
	}
	return flags
}

// FraudRisk scores fraud signals in the record.
func FraudRisk(rec kyc.VerificationRecord) risk.FraudAssessment {
	score := 0
	var factors []string
	if rec.DocumentInconsistencies > 0 {
		score += 20
		factors = append(factors, "Document inconsistencies detected")
	}
	if rec.VerificationMismatches > 0 {
		score += 15
		factors = append(factors, "Verification data mismatches")
	}
	if rec.SuspiciousPatterns {
		score += 25
		factors = append(factors, "Suspicious activity patterns")
	}

	level := "Low"
	switch {
	case score >= 50:
		level = "High"
	case score >= 25:
		level = "Medium"
	}
	return risk.FraudAssessment{Score: score, Level: level, Factors: factors}
}
