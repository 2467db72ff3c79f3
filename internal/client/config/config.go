package config

import "time"

// Config holds runtime settings for the RetroMarket CLI.
type Config struct {
	// APIBaseURL is the base URL of the accounts backend.
	APIBaseURL string

	// DatabaseDSN is the path/DSN of the local SQLite database.
	DatabaseDSN string

	// RequestTimeout bounds each backend request.
	RequestTimeout time.Duration

	// UseCookieSession asks the backend for a cookie session on login
	// instead of a bearer token.
	UseCookieSession bool

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DatabaseDSN = "retromarket.db"
	c.RequestTimeout = 10 * time.Second
	c.UseCookieSession = false
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present), and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
