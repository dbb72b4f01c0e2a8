package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediflow/invoice-risk/internal/risk"
)

func sampleDigest() risk.Digest {
	return risk.Digest{
		InvoiceID:   "INV-100",
		Score:       42,
		RiskLevel:   risk.LevelMedium,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix(),
		FactorCount: 4,
	}
}

func TestDigestHashDeterministic(t *testing.T) {
	a, err := DigestHash(sampleDigest())
	require.NoError(t, err)
	b, err := DigestHash(sampleDigest())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	other := sampleDigest()
	other.Score = 43
	c, err := DigestHash(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSubmit(t *testing.T) {
	wantHash, err := DigestHash(sampleDigest())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/digests", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "INV-100", body["invoice_id"])
		assert.Equal(t, wantHash, body["data_hash"])

		json.NewEncoder(w).Encode(map[string]string{"ref": "0xabc123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ref, err := c.Submit(context.Background(), sampleDigest())
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", ref)
}

func TestSubmitMissingRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Submit(context.Background(), sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing ref")
}

func TestSubmitErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chain unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Submit(context.Background(), sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}
