package config

import (
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

// StorageMemory as StoragePath keeps the session in memory only.
const StorageMemory = "memory"

// Config holds runtime settings for the legal-saarthi terminal client.
//
// Fields:
//   - APIBaseURL: root of the backend API, e.g. http://localhost:5000/api.
//   - RequestTimeout: default deadline of a backend call.
//   - UploadTimeout: deadline of document uploads, which run OCR server-side.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - StoragePath: SQLite file holding the session, or StorageMemory.
//   - LogBackend, LogLevel: see logging.New.
//   - MetricsAddr: host:port serving Prometheus metrics; empty disables it.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	UploadTimeout       time.Duration
	OnlineCheckInterval time.Duration
	StoragePath         string
	LogBackend          string
	LogLevel            string
	MetricsAddr         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 60 * time.Second
	c.UploadTimeout = 2 * time.Minute
	c.OnlineCheckInterval = 5 * time.Second
	c.StoragePath = "legal-saarthi.db"
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "warn"
	c.MetricsAddr = ""
}

// LoadConfig builds a Config from defaults, then the .env file and the
// environment, then the JSON file named by -c/-config, then flags. Later
// sources take precedence. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
