package risk

import "time"

// RiskLevel is the discrete band derived from the overall score.
type RiskLevel string

const (
	LevelVeryLow  RiskLevel = "VERY_LOW"
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelVeryHigh RiskLevel = "VERY_HIGH"
)

// Impact tags a risk factor's direction relative to the neutral band.
type Impact string

const (
	ImpactPositive Impact = "POSITIVE"
	ImpactNeutral  Impact = "NEUTRAL"
	ImpactNegative Impact = "NEGATIVE"
)

// Stage names the four upstream analyses feeding synthesis.
type Stage string

const (
	StageCredit   Stage = "credit"
	StageIdentity Stage = "identity"
	StageMarket   Stage = "market"
	StageInvoice  Stage = "invoice"
)

// CompanyInfo identifies a counterparty. Immutable once handed to the
// pipeline.
type CompanyInfo struct {
	Name             string     `json:"name"`
	TaxID            string     `json:"tax_id"`
	Industry         string     `json:"industry"`
	Location         string     `json:"location"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Website          string     `json:"website,omitempty"`
	EmployeeCount    int        `json:"employee_count,omitempty"`
}

// InvoiceData is the unit under assessment.
type InvoiceData struct {
	ID           string      `json:"id"`
	Amount       float64     `json:"amount"`
	Currency     string      `json:"currency"`
	DueDate      time.Time   `json:"due_date"`
	Buyer        CompanyInfo `json:"buyer_info"`
	Seller       CompanyInfo `json:"seller_info"`
	Description  string      `json:"description"`
	PaymentTerms string      `json:"payment_terms"`
	CreatedAt    time.Time   `json:"created_at"`
}

// FinancialMetrics is the financial-health slice of a credit profile.
type FinancialMetrics struct {
	Revenue      float64 `json:"revenue"`
	GrowthRate   float64 `json:"growth_rate"`
	NetMargin    float64 `json:"net_margin"`
	CurrentRatio float64 `json:"current_ratio"`
	DebtToEquity float64 `json:"debt_to_equity"`
	CashReserves float64 `json:"cash_reserves"`
}

// CreditProfile is the credit stage's success payload.
type CreditProfile struct {
	CreditScore         int              `json:"credit_score"`
	Rating              string           `json:"rating"`
	Metrics             FinancialMetrics `json:"financial_metrics"`
	PaymentHistoryScore float64          `json:"payment_history_score"`
	OnTimePaymentRate   float64          `json:"on_time_payment_rate"`
	LatePaymentsCount   int              `json:"late_payments_count"`
}

// FraudAssessment summarizes fraud signals found during verification.
type FraudAssessment struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors,omitempty"`
}

// IdentityVerification is the identity stage's success payload.
type IdentityVerification struct {
	Verified             bool            `json:"verified"`
	KYCLevel             string          `json:"kyc_level"`
	TrustScore           int             `json:"trust_score"`
	ComplianceScore      int             `json:"compliance_score"`
	DocumentVerification map[string]bool `json:"document_verification,omitempty"`
	RiskFlags            []string        `json:"risk_flags,omitempty"`
	Fraud                FraudAssessment `json:"fraud_assessment"`
}

// MarketIntelligence is the market stage's success payload.
type MarketIntelligence struct {
	IndustryGrowthRate  float64 `json:"industry_growth_rate"`
	MarketVolatility    string  `json:"market_volatility"`
	EconomicOutlook     string  `json:"economic_outlook"`
	SectorHealth        string  `json:"sector_health"`
	GeographicRiskScore int     `json:"geographic_risk_score"`
	SupplyChainStatus   string  `json:"supply_chain_status"`
}

// StageResult is the common envelope for one upstream stage outcome.
// Exactly one of the two variants holds: OK with a payload and a
// confidence, or not-OK with a reason. A failed or timed-out stage never
// aborts the assessment; scoring substitutes the stage's default
// sub-score and the confidence blend skips it.
type StageResult struct {
	OK         bool    `json:"ok"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// CreditResult is the credit stage's partial result.
type CreditResult struct {
	StageResult
	Profile CreditProfile `json:"credit_profile,omitempty"`
}

// IdentityResult is the identity stage's partial result.
type IdentityResult struct {
	StageResult
	Verification IdentityVerification `json:"identity_verification,omitempty"`
}

// MarketResult is the market stage's partial result.
type MarketResult struct {
	StageResult
	Intelligence MarketIntelligence `json:"market_intelligence,omitempty"`
}

// CreditUnavailable builds the unavailable variant for the credit stage.
func CreditUnavailable(reason string) CreditResult {
	return CreditResult{StageResult: StageResult{Reason: reason}}
}

// IdentityUnavailable builds the unavailable variant for the identity stage.
func IdentityUnavailable(reason string) IdentityResult {
	return IdentityResult{StageResult: StageResult{Reason: reason}}
}

// MarketUnavailable builds the unavailable variant for the market stage.
func MarketUnavailable(reason string) MarketResult {
	return MarketResult{StageResult: StageResult{Reason: reason}}
}

// RiskFactor is one named, weighted, explained contribution to the
// overall score. The ordered factor list is the assessment's audit trail.
type RiskFactor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Impact      Impact  `json:"impact"`
	Description string  `json:"description"`
}

// SuggestedTerms is the financing proposal derived from the overall
// score and the invoice amount. Reproducible bit-for-bit from those two
// inputs alone.
type SuggestedTerms struct {
	InterestRate       float64 `json:"interest_rate"`
	CollateralRequired bool    `json:"collateral_required"`
	CreditLimit        float64 `json:"credit_limit"`
	PaymentTerms       string  `json:"payment_terms"`
	AdvanceRate        float64 `json:"advance_rate"`
}

// RiskAssessment is the terminal artifact of one assessment run. Never
// mutated after construction; re-assessments produce new instances.
type RiskAssessment struct {
	ID             string         `json:"id"`
	InvoiceID      string         `json:"invoice_id"`
	OverallScore   int            `json:"overall_score"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Confidence     float64        `json:"confidence"`
	Recommendation string         `json:"recommendation"`
	Factors        []RiskFactor   `json:"factors"`
	Narrative      string         `json:"narrative"`
	SuggestedTerms SuggestedTerms `json:"suggested_terms"`
	LedgerRef      string         `json:"ledger_ref,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Digest is the compact summary of a decision submitted for external
// tamper-evident persistence.
type Digest struct {
	InvoiceID   string    `json:"invoice_id"`
	Score       int       `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Timestamp   int64     `json:"timestamp"`
	FactorCount int       `json:"factors_count"`
}
