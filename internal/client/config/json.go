package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rajgupta764/legal-saarthi/internal/flagx"
	"github.com/Rajgupta764/legal-saarthi/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be strings like "30s" or integer nanoseconds. Absent fields keep the
// value from earlier sources.
type JSONConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	UploadTimeout       *timex.Duration `json:"upload_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	StoragePath         string          `json:"storage_path"`
	LogBackend          string          `json:"log_backend"`
	LogLevel            string          `json:"log_level"`
	MetricsAddr         string          `json:"metrics_addr"`
}

// parseJSON overlays cfg with the file named by -c or -config in args. No
// flag means nothing to do.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UploadTimeout != nil {
		cfg.UploadTimeout = jc.UploadTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
