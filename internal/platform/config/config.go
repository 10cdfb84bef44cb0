package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Rate feed (exchangerate-api compatible endpoint, base code appended)
	RateFeedURL     string
	RateFeedTimeout time.Duration
	// RateSyncInterval <= 0 disables the background sync loop.
	RateSyncInterval time.Duration

	// Requests per client IP per period.
	RateLimitPeriod time.Duration
	RateLimitCount  int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "crm-finance")
	viper.SetDefault("RATE_FEED_URL", "https://api.exchangerate-api.com/v4/latest")
	viper.SetDefault("RATE_FEED_TIMEOUT", "10s")
	viper.SetDefault("RATE_SYNC_INTERVAL", "1h")
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_COUNT", 120)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDuration("JWT_EXPIRY_DURATION", 8*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateFeedURL = viper.GetString("RATE_FEED_URL")
	cfg.RateFeedTimeout = parseDuration("RATE_FEED_TIMEOUT", 10*time.Second)
	cfg.RateSyncInterval = parseDuration("RATE_SYNC_INTERVAL", time.Hour)

	cfg.RateLimitPeriod = parseDuration("RATE_LIMIT_PERIOD", time.Minute)
	cfg.RateLimitCount = viper.GetInt64("RATE_LIMIT_COUNT")

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
