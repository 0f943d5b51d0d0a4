// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Market    MarketConfig    `mapstructure:"market"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// MarketConfig holds venue market-data configuration.
type MarketConfig struct {
	// Venues lists the enabled venue adapters by name.
	Venues []string `mapstructure:"venues"`
	// Endpoints overrides the depth endpoint URL per venue.
	Endpoints         map[string]string `mapstructure:"endpoints"`
	RefreshInterval   time.Duration     `mapstructure:"refresh_interval"`
	FetchTimeout      time.Duration     `mapstructure:"fetch_timeout"`
	RequestsPerMinute int               `mapstructure:"requests_per_minute"`
}

// ArbitrageConfig holds arbitrage detection configuration.
type ArbitrageConfig struct {
	MarginalProfitRate   float64       `mapstructure:"marginal_profit_rate"`
	IgnoreMatchingOrders bool          `mapstructure:"ignore_matching_orders"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	TUIMode              bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// MarginalProfitRateDecimal returns the profit threshold as decimal.Decimal.
func (c *ArbitrageConfig) MarginalProfitRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MarginalProfitRate)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Market
	v.BindEnv("market.venues", "ARB_MARKET_VENUES")
	v.BindEnv("market.refresh_interval", "ARB_MARKET_REFRESH_INTERVAL")
	v.BindEnv("market.fetch_timeout", "ARB_MARKET_FETCH_TIMEOUT")
	v.BindEnv("market.requests_per_minute", "ARB_MARKET_RPM")

	// Arbitrage
	v.BindEnv("arbitrage.marginal_profit_rate", "ARB_MARGINAL_PROFIT_RATE")
	v.BindEnv("arbitrage.ignore_matching_orders", "ARB_IGNORE_MATCHING_ORDERS")
	v.BindEnv("arbitrage.poll_interval", "ARB_POLL_INTERVAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_provider", "ARB_OTEL_TRACE_PROVIDER")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arbitrageur")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Market defaults
	v.SetDefault("market.venues", []string{"bitstamp", "btce", "campbx", "mtgox"})
	v.SetDefault("market.refresh_interval", "60s")
	v.SetDefault("market.fetch_timeout", "10s")
	v.SetDefault("market.requests_per_minute", 30)

	// Arbitrage defaults
	v.SetDefault("arbitrage.marginal_profit_rate", 0.01)
	v.SetDefault("arbitrage.ignore_matching_orders", false)
	v.SetDefault("arbitrage.poll_interval", "60s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbitrageur")
	v.SetDefault("telemetry.trace_provider", "EMPTY_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Market.Venues) == 0 {
		return fmt.Errorf("market.venues cannot be empty")
	}
	if c.Market.RefreshInterval <= 0 {
		return fmt.Errorf("market.refresh_interval must be positive")
	}
	if c.Market.FetchTimeout <= 0 {
		return fmt.Errorf("market.fetch_timeout must be positive")
	}
	if c.Arbitrage.MarginalProfitRate < 0 {
		return fmt.Errorf("arbitrage.marginal_profit_rate cannot be negative")
	}
	if c.Arbitrage.PollInterval <= 0 {
		return fmt.Errorf("arbitrage.poll_interval must be positive")
	}
	return nil
}
