package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	// UseMemoryStore runs the engine against the in-memory repository
	// instead of PostgreSQL. Intended for local development only.
	UseMemoryStore bool
	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("USE_MEMORY_STORE", false)
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.UseMemoryStore = viper.GetBool("USE_MEMORY_STORE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	if cfg.DatabaseURL == "" && !cfg.UseMemoryStore {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	return cfg, nil
}
