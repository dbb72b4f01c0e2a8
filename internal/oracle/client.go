// Package oracle is the HTTP client for the financial data oracle that
// serves company financial profiles and market snapshots.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CompanyProfile is the oracle's financial view of a company.
type CompanyProfile struct {
	Revenue             float64  `json:"revenue"`
	GrowthRate          float64  `json:"growth_rate"`
	NetMargin           float64  `json:"net_margin"`
	CurrentRatio        float64  `json:"current_ratio"`
	DebtToEquity        float64  `json:"debt_to_equity"`
	CashReserves        float64  `json:"cash_reserves"`
	PaymentHistoryScore float64  `json:"payment_history_score"`
	OnTimeRate          float64  `json:"on_time_rate"`
	LatePayments        int      `json:"late_payments"`
	CreditUtilization   float64  `json:"credit_utilization"`
	CreditHistoryMonths int      `json:"credit_history_months"`
	CreditTypes         int      `json:"credit_types"`
	DefaultHistory      []string `json:"default_history,omitempty"`
}

// MarketSnapshot is the oracle's view of an industry in a location.
type MarketSnapshot struct {
	IndustryGrowthRate  float64 `json:"industry_growth_rate"`
	Volatility          string  `json:"volatility"`
	GDPGrowth           float64 `json:"gdp_growth"`
	InflationRate       float64 `json:"inflation_rate"`
	EmploymentTrend     string  `json:"employment_trend"`
	InvestmentFlow      string  `json:"investment_flow"`
	GeographicRiskScore int     `json:"geographic_risk_score"`
	SupplyChainStatus   string  `json:"supply_chain_status"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed status=%d body=%s", method, path, resp.StatusCode, string(blob))
	}
	return json.Unmarshal(blob, out)
}

// GetCompanyProfile fetches the financial profile keyed by tax ID.
func (c *Client) GetCompanyProfile(ctx context.Context, name, taxID string) (CompanyProfile, error) {
	body, _ := json.Marshal(map[string]string{
		"company_name": name,
		"tax_id":       taxID,
	})
	var out CompanyProfile
	if err := c.doJSON(ctx, http.MethodPost, "/v1/company/financials", body, &out); err != nil {
		return CompanyProfile{}, err
	}
	return out, nil
}

// GetMarketSnapshot fetches market conditions for an industry and
// location.
func (c *Client) GetMarketSnapshot(ctx context.Context, industry, location string) (MarketSnapshot, error) {
	q := url.Values{}
	q.Set("industry", industry)
	q.Set("location", location)
	var out MarketSnapshot
	if err := c.doJSON(ctx, http.MethodGet, "/v1/market/conditions?"+q.Encode(), nil, &out); err != nil {
		return MarketSnapshot{}, err
	}
	return out, nil
}
