// Package kyc is the HTTP client for the business identity
// verification provider.
package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// VerificationRecord is the provider's raw verification outcome.
type VerificationRecord struct {
	Verified                bool            `json:"verified"`
	KYCLevel                string          `json:"kyc_level"`
	Confidence              float64         `json:"confidence"`
	DocumentVerification    map[string]bool `json:"document_verification"`
	DocumentsAuthentic      bool            `json:"documents_authentic"`
	AMLCompliant            bool            `json:"aml_compliant"`
	KYCCompliant            bool            `json:"kyc_compliant"`
	SanctionsClear          bool            `json:"sanctions_clear"`
	SanctionsHit            bool            `json:"sanctions_hit"`
	HistoryScore            float64         `json:"history_score"`
	DocumentInconsistencies int             `json:"document_inconsistencies"`
	VerificationMismatches  int             `json:"verification_mismatches"`
	SuspiciousPatterns      bool            `json:"suspicious_patterns"`
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

// VerifyBusiness runs a business-level KYC check.
func (c *Client) VerifyBusiness(ctx context.Context, name, taxID, location string) (VerificationRecord, error) {
	body, _ := json.Marshal(map[string]string{
		"business_name": name,
		"tax_id":        taxID,
		"location":      location,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/verify/business", bytes.NewReader(body))
	if err != nil {
		return VerificationRecord{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return VerificationRecord{}, err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return VerificationRecord{}, fmt.Errorf("POST /v1/verify/business failed status=%d body=%s", resp.StatusCode, string(blob))
	}
	var out VerificationRecord
	if err := json.Unmarshal(blob, &out); err != nil {
		return VerificationRecord{}, err
	}
	return out, nil
}
