package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000/api", c.APIBaseURL)
	assert.Equal(t, 60*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Minute, c.UploadTimeout)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "slog", c.LogBackend)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://env.example/api")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvUploadTimeout, "3m")

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"http://json.example/api","storage_path":"json.db"}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-s", "memory", "-unknown", "x"})
	require.NoError(t, err)

	want := &Config{
		APIBaseURL:          "http://json.example/api",
		RequestTimeout:      60 * time.Second,
		UploadTimeout:       3 * time.Minute,
		OnlineCheckInterval: 5 * time.Second,
		StoragePath:         StorageMemory,
		LogBackend:          "slog",
		LogLevel:            "debug",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv(EnvRequestTimeout, "soon")
		_, err := LoadConfig(nil)
		assert.ErrorContains(t, err, EnvRequestTimeout)
	})

	t.Run("missing json file", func(t *testing.T) {
		_, err := LoadConfig([]string{"-config", filepath.Join(t.TempDir(), "absent.json")})
		assert.Error(t, err)
	})

	t.Run("bad flag value", func(t *testing.T) {
		_, err := LoadConfig([]string{"-i", "abc"})
		assert.Error(t, err)
	})
}
