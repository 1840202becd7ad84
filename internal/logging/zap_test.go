package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ZapBackendWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(BackendZap, "info", &buf)
	require.NoError(t, err)

	log.With("component", "session").Info(context.Background(), "logged in", "user", "asha@example.com")
	log.Debug(context.Background(), "hidden")

	out := buf.String()
	assert.Contains(t, out, `"msg":"logged in"`)
	assert.Contains(t, out, `"component":"session"`)
	assert.Contains(t, out, `"user":"asha@example.com"`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_SlogBackendRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(BackendSlog, "warn", &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "quiet")
	log.Warn(context.Background(), "loud", "k", 1)

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	_, err := New("logrus", "info", nil)
	require.Error(t, err)

	_, err = New(BackendSlog, "verbose", nil)
	require.Error(t, err)
}
