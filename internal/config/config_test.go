package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "assessments.db", cfg.Store.Path)
	assert.Equal(t, 30, cfg.Risk.StageTimeoutSecs)
	assert.Equal(t, 20, cfg.Risk.NarrativeTimeoutSecs)
	assert.Equal(t, 10, cfg.Risk.LedgerTimeoutSecs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CREDIFLOW_SERVER_PORT", "9090")
	t.Setenv("CREDIFLOW_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadCollaboratorEndpointsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CREDIFLOW_ORACLE_BASE_URL", "https://oracle.example.com")
	t.Setenv("CREDIFLOW_ORACLE_API_KEY", "oracle-key")
	t.Setenv("CREDIFLOW_KYC_BASE_URL", "https://kyc.example.com")
	t.Setenv("CREDIFLOW_KYC_API_KEY", "kyc-key")
	t.Setenv("CREDIFLOW_LEDGER_BASE_URL", "https://ledger.example.com")
	t.Setenv("CREDIFLOW_LEDGER_API_KEY", "ledger-key")
	t.Setenv("CREDIFLOW_TELEMETRY_OTLP_ENDPOINT", "collector:4318")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://oracle.example.com", cfg.Oracle.BaseURL)
	assert.Equal(t, "oracle-key", cfg.Oracle.APIKey)
	assert.Equal(t, "https://kyc.example.com", cfg.KYC.BaseURL)
	assert.Equal(t, "kyc-key", cfg.KYC.APIKey)
	assert.Equal(t, "https://ledger.example.com", cfg.Ledger.BaseURL)
	assert.Equal(t, "ledger-key", cfg.Ledger.APIKey)
	assert.Equal(t, "collector:4318", cfg.Telemetry.OTLPEndpoint)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
