package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	App      AppConfig
	Logging  LoggingConfig
	Alerts   AlertsConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Name        string
	Environment string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// AlertsConfig holds the SLA windows used by the alert engine
type AlertsConfig struct {
	// QuoteExpiryWindowDays is the inclusive number of days before its
	// expiration date at which a pending quote starts alerting
	QuoteExpiryWindowDays int
}

// PipelineConfig holds forecast and document defaults
type PipelineConfig struct {
	// DefaultCurrency is stamped on documents created by conversions when
	// the source document carries none
	DefaultCurrency string
}

// Load reads configuration from .env (when present), environment variables
// and defaults, in ascending priority
func Load() (*Config, error) {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	cfg.App.Name = v.GetString("app.name")
	cfg.App.Environment = v.GetString("app.environment")
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Format = v.GetString("logging.format")
	cfg.Alerts.QuoteExpiryWindowDays = v.GetInt("alerts.quote_expiry_window_days")
	cfg.Pipeline.DefaultCurrency = v.GetString("pipeline.default_currency")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sales-engine")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("alerts.quote_expiry_window_days", 7)

	v.SetDefault("pipeline.default_currency", "MXN")
}
