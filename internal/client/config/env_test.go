package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := parseEnv(&cfg, mapLookup(map[string]string{
		EnvAPIURL:         "https://saathi.example.in/api",
		EnvRequestTimeout: "15s",
		EnvCheckInterval:  "1m",
		EnvStorage:        "memory",
		EnvLogBackend:     "zap",
		EnvMetricsAddr:    ":9100",
		EnvLogLevel:       "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://saathi.example.in/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.OnlineCheckInterval)
	assert.Equal(t, 2*time.Minute, cfg.UploadTimeout)
	assert.Equal(t, StorageMemory, cfg.StoragePath)
	assert.Equal(t, "zap", cfg.LogBackend)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "warn", cfg.LogLevel, "empty values are ignored")
}

func TestParseEnv_BadDurations(t *testing.T) {
	var cfg Config
	err := parseEnv(&cfg, mapLookup(map[string]string{
		EnvRequestTimeout: "x",
		EnvUploadTimeout:  "y",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, EnvRequestTimeout)
	assert.ErrorContains(t, err, EnvUploadTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	const key = "LEGAL_SAARTHI_DOTENV_TEST"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	t.Setenv(key, "from-env")
	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key), "environment wins over the file")
}
