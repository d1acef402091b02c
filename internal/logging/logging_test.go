package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("key", "A_1").Msg("matched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "matched", entry["message"])
	assert.Equal(t, "A_1", entry["key"])
	assert.Equal(t, "info", entry["level"])
}

func TestAutoFormatOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "auto", Output: &buf})
	log.Warn().Msg("duplicate")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestUseConsole(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "contentkit-*.log")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, useConsole("auto", f), "a regular file is not a terminal")
	assert.True(t, useConsole("console", f))
	assert.False(t, useConsole("json", os.Stderr))
	assert.False(t, useConsole("", &bytes.Buffer{}))
}
