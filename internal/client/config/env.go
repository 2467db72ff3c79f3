package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env entries (godotenv does not overwrite them).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("RETROMARKET_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("RETROMARKET_DB"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("RETROMARKET_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("RETROMARKET_USE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseCookieSession = b
		}
	}
	if v := os.Getenv("RETROMARKET_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
