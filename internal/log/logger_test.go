package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Config{Level: level, Format: format, Output: NewOutput(buf)}), buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"Fatal", LevelFatal},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, "json", FormatJSON.String())
}

func TestLogLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestFatalLevelName(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Fatal("store unreachable")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "FATAL", entry["level"])
	assert.Equal(t, "store unreachable", entry["msg"])
}

func TestChannel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: NewOutput(buf), Namespace: "frontvue"})

	logger.Channel("ConfigWizard").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ConfigWizard", entry["channel"])
	assert.Equal(t, "frontvue", entry["namespace"])
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKeys []string
	}{
		{
			name:     "coded error",
			err:      errors.New(errors.ErrCodeTaskFailed, "task failed").WithSuggestion("check the task"),
			wantKeys: []string{"error", "error_code", "suggestions"},
		},
		{
			name:     "coded error with cause",
			err:      errors.Wrap(errors.ErrCodeConfigAccessFailed, "config", fmt.Errorf("disk")),
			wantKeys: []string{"error", "error_code", "cause"},
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("plain"),
			wantKeys: []string{"error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelInfo, FormatJSON)
			logger.WithError(tt.err).Info("failed")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			for _, key := range tt.wantKeys {
				assert.Contains(t, entry, key)
			}
		})
	}
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo, FormatJSON)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestEnabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelWarn, FormatText)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelFatal))
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing to see")
	assert.False(t, logger.Enabled(context.Background(), LevelError))
}

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	defaultLogger = nil
	first := DefaultLogger()
	require.NotNil(t, first)
	assert.Same(t, first, DefaultLogger())

	custom := Development()
	SetDefaultLogger(custom)
	assert.Same(t, custom, DefaultLogger())
	assert.Same(t, custom, OrDefault(nil))

	other := Nop()
	assert.Same(t, other, OrDefault(other))
}

func TestTextFormatOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.Info("plain text", "key", "value")

	out := buf.String()
	assert.True(t, strings.Contains(out, "key=value"), out)
	assert.Contains(t, out, "plain text")
}
