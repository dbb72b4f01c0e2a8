// Package config loads application configuration from file and
// environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Oracle    OracleConfig    `yaml:"oracle" mapstructure:"oracle"`
	KYC       KYCConfig       `yaml:"kyc" mapstructure:"kyc"`
	Ledger    LedgerConfig    `yaml:"ledger" mapstructure:"ledger"`
	Risk      RiskConfig      `yaml:"risk" mapstructure:"risk"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// StoreConfig configures assessment persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OracleConfig holds the financial data oracle endpoint.
type OracleConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// KYCConfig holds the identity verification provider endpoint.
type KYCConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// LedgerConfig holds the decision ledger endpoint.
type LedgerConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// RiskConfig holds synthesis tunables that operators may override.
type RiskConfig struct {
	StageTimeoutSecs     int `yaml:"stage_timeout_secs" mapstructure:"stage_timeout_secs"`
	NarrativeTimeoutSecs int `yaml:"narrative_timeout_secs" mapstructure:"narrative_timeout_secs"`
	LedgerTimeoutSecs    int `yaml:"ledger_timeout_secs" mapstructure:"ledger_timeout_secs"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml (optional) and CREDIFLOW_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CREDIFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default: AutomaticEnv only surfaces env values
	// for keys viper already knows about when unmarshalling.
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.path", "assessments.db")
	v.SetDefault("oracle.base_url", "")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("kyc.base_url", "")
	v.SetDefault("kyc.api_key", "")
	v.SetDefault("ledger.base_url", "")
	v.SetDefault("ledger.api_key", "")
	v.SetDefault("risk.stage_timeout_secs", 30)
	v.SetDefault("risk.narrative_timeout_secs", 20)
	v.SetDefault("risk.ledger_timeout_secs", 10)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
