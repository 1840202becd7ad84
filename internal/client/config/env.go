package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Environment variables understood by parseEnv.
const (
	EnvAPIURL         = "LEGAL_SAARTHI_API_URL"
	EnvRequestTimeout = "LEGAL_SAARTHI_REQUEST_TIMEOUT"
	EnvUploadTimeout  = "LEGAL_SAARTHI_UPLOAD_TIMEOUT"
	EnvCheckInterval  = "LEGAL_SAARTHI_ONLINE_CHECK_INTERVAL"
	EnvStorage        = "LEGAL_SAARTHI_STORAGE"
	EnvLogBackend     = "LEGAL_SAARTHI_LOG_BACKEND"
	EnvLogLevel       = "LEGAL_SAARTHI_LOG_LEVEL"
	EnvMetricsAddr    = "LEGAL_SAARTHI_METRICS_ADDR"
)

var lookupEnv = os.LookupEnv

// loadDotEnv copies the file's variables into the process environment.
// Variables that are already set win; a missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(EnvAPIURL, &cfg.APIBaseURL)
	str(EnvStorage, &cfg.StoragePath)
	str(EnvLogBackend, &cfg.LogBackend)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvMetricsAddr, &cfg.MetricsAddr)

	return errors.Join(
		dur(EnvRequestTimeout, &cfg.RequestTimeout),
		dur(EnvUploadTimeout, &cfg.UploadTimeout),
		dur(EnvCheckInterval, &cfg.OnlineCheckInterval),
	)
}
