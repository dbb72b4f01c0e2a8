// Package ledger submits decision digests to the tamper-evident ledger
// service.
package ledger

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crediflow/invoice-risk/internal/risk"
)

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

// DigestHash is the sha256 of the digest's canonical JSON form (keys
// sorted), hex encoded. The same digest always hashes identically
// regardless of field order in transit.
func DigestHash(d risk.Digest) (string, error) {
	blob, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	// Round-trip through a map so keys serialize sorted.
	var m map[string]any
	if err := json.Unmarshal(blob, &m); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Submit anchors the digest and returns the ledger's reference for it.
func (c *Client) Submit(ctx context.Context, d risk.Digest) (string, error) {
	hash, err := DigestHash(d)
	if err != nil {
		return "", err
	}
	body, _ := json.Marshal(struct {
		risk.Digest
		DataHash string `json:"data_hash"`
	}{Digest: d, DataHash: hash})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/digests", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("POST /v1/digests failed status=%d body=%s", resp.StatusCode, string(blob))
	}
	var out struct {
		Ref string `json:"ref"`
	}
	if err := json.Unmarshal(blob, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Ref) == "" {
		return "", fmt.Errorf("missing ref in ledger response")
	}
	return out.Ref, nil
}
