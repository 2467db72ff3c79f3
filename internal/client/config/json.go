package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/retromarket/retromarket/internal/flagx"
)

// Duration unmarshals either a string like "10s" or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	APIBaseURL       *string   `json:"api_base_url"`
	DatabaseDSN      *string   `json:"database_dsn"`
	RequestTimeout   *Duration `json:"request_timeout"`
	UseCookieSession *bool     `json:"use_cookie_session"`
	LogLevel         *string   `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c or -config flags. When no file is named nothing happens.
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UseCookieSession != nil {
		cfg.UseCookieSession = *jc.UseCookieSession
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
