// Package config loads runtime configuration for the RetroMarket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally loaded from a .env file (parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the accounts backend
//	-d string   path of the local client database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations can be either strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.retromarket.dev",
//	  "database_dsn": "retromarket.db",
//	  "request_timeout": "10s",
//	  "use_cookie_session": false,
//	  "log_level": "info"
//	}
package config
