package credit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediflow/invoice-risk/internal/oracle"
	"github.com/crediflow/invoice-risk/internal/risk"
)

type stubSource struct {
	profile oracle.CompanyProfile
	err     error
}

func (s stubSource) GetCompanyProfile(context.Context, string, string) (oracle.CompanyProfile, error) {
	return s.profile, s.err
}

func strongProfile() oracle.CompanyProfile {
	return oracle.CompanyProfile{
		Revenue:             5_000_000,
		GrowthRate:          15,
		PaymentHistoryScore: 90,
		OnTimeRate:          0.97,
		CreditUtilization:   20,
		CreditHistoryMonths: 84,
		CreditTypes:         4,
	}
}

func TestScoreStrongProfile(t *testing.T) {
	// 300 + int(90*0.35*7)=220 + 50 + 40 + 100 + 50 + 25 = 785
	assert.Equal(t, 785, Score(strongProfile()))
}

func TestScoreWeakProfileFloors(t *testing.T) {
	p := oracle.CompanyProfile{PaymentHistoryScore: 0, CreditUtilization: 95}
	assert.Equal(t, 300, Score(p))
}

func TestScoreCapsAt850(t *testing.T) {
	// An out-of-range payment history score must not push past the cap.
	p := strongProfile()
	p.PaymentHistoryScore = 150
	assert.Equal(t, 850, Score(p))
}

func TestRatingLetters(t *testing.T) {
	cases := map[int]string{
		820: "AAA",
		800: "AAA",
		760: "AA",
		720: "A",
		660: "BBB",
		610: "BB",
		560: "B",
		400: "CCC",
	}
	for score, want := range cases {
		assert.Equal(t, want, Rating(score), "score %d", score)
	}
}

func TestAnalyzeCreditSuccess(t *testing.T) {
	a := NewAnalyzer(stubSource{profile: strongProfile()}, nil)
	res := a.AnalyzeCredit(context.Background(), risk.CompanyInfo{Name: "Acme", TaxID: "12-34"})

	require.True(t, res.OK)
	assert.Equal(t, 0.85, res.Confidence)
	assert.Equal(t, 785, res.Profile.CreditScore)
	assert.Equal(t, "AA", res.Profile.Rating)
	assert.Equal(t, 0.97, res.Profile.OnTimePaymentRate)
}

func TestAnalyzeCreditUnavailableOnError(t *testing.T) {
	a := NewAnalyzer(stubSource{err: errors.New("connection refused")}, nil)
	res := a.AnalyzeCredit(context.Background(), risk.CompanyInfo{Name: "Acme"})

	require.False(t, res.OK)
	assert.Contains(t, res.Reason, "credit data unavailable")
	assert.Zero(t, res.Confidence)
}
