package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "debug", Format: "json", Writer: &buf, Component: " gate "})

	lg.Debug("opened", "id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "opened", record["msg"])
	assert.Equal(t, "gate", record["component"])
	assert.Equal(t, "abc", record["id"])
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "warn", Writer: &buf})

	lg.Info("hidden")
	assert.Empty(t, buf.String())

	lg.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	lg := Discard()
	assert.Same(t, lg, OrDiscard(lg))
}
