package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	require.NoError(t, Close())
	t.Cleanup(func() { _ = Close() })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" Info ", LevelInfo, false},
		{"WARN", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitWritesToOutput(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelWarn, Output: &buf, Format: "json"}))

	Debug("debug hidden")
	Info("info hidden")
	Warn("shown", "stage", "syntax")
	Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"stage":"syntax"`)
	assert.Contains(t, out, `"msg":"also shown"`)
}

func TestInitTwiceFails(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Output: &buf}))
	assert.Error(t, Init(Config{Output: &buf}))

	require.NoError(t, Close())
	assert.NoError(t, Init(Config{Output: &buf}))
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	reset(t)
	assert.Error(t, Init(Config{Format: "xml"}))
	assert.NotNil(t, GetLogger())
}

func TestInitToFile(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "logs", "tagsql.log")
	require.NoError(t, Init(Config{Level: LevelDebug, OutputPath: path}))

	WithComponent("batch").Debug("run started")
	Info("failed", "error", errors.New("boom"))
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=batch")
	assert.Contains(t, string(data), "error=boom")
}

func TestGetLoggerLazyDefault(t *testing.T) {
	reset(t)
	l := GetLogger()
	require.NotNil(t, l)
	assert.Same(t, l, GetLogger())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.With("a", 1).WithGroup("g").Error("dropped")
	assert.False(t, l.Enabled(t.Context(), 12))
}
