package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Sessions — Redis is optional; empty REDIS_URL selects the in-memory store.
	RedisURL        string `mapstructure:"REDIS_URL"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// Ledger policy
	// LedgerAllowNegative permits stock-out adjustments to drive a balance
	// below zero (flagged in the log). When false such adjustments fail.
	LedgerAllowNegative bool `mapstructure:"LEDGER_ALLOW_NEGATIVE"`

	// Business
	TaxRate string `mapstructure:"TAX_RATE"` // e.g. "0.08" = 8% on taxable items
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "liquorpos.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("LEDGER_ALLOW_NEGATIVE", true)
	viper.SetDefault("TAX_RATE", "0.08")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
