package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogging(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitLoggerWithWriter(Config{
		Level:       LogLevelInfo,
		Format:      LogFormatJSON,
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: EnvironmentTest,
	}, &buf)

	Info("spin settled", "request_id", "7", "payout", "10")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-service", entry[AttrKeyService])
	assert.Equal(t, "1.0.0", entry[AttrKeyVersion])
	assert.Equal(t, EnvironmentTest, entry[AttrKeyEnvironment])
	assert.Equal(t, "spin settled", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "10", entry["payout"])
}

func TestLevelFiltering(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: LogLevelWarn, Format: LogFormatText}, &buf)

	Debug("hidden")
	Info("hidden too")
	Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestTraceIDContext(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := WithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", GetTraceID(ctx))

	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: LogLevelInfo, Format: LogFormatJSON}, &buf)
	FromContext(ctx).Info("with id")
	assert.True(t, strings.Contains(buf.String(), `"trace_id":"trace-123"`))
}

func TestGenerateTraceID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		level  slog.Level
		isJSON bool
	}{
		{"defaults", DefaultConfig(), slog.LevelInfo, false},
		{"production", ProductionConfig(), slog.LevelInfo, true},
		{"explicit debug", NewConfig("DEBUG", "JSON", "", "", "", true), slog.LevelDebug, true},
		{"warning alias", NewConfig(LogLevelWarning, "", "", "", "", false), slog.LevelWarn, false},
		{"unknown level", NewConfig("loud", "", "", "", "", false), slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, tt.cfg.LogLevel())
			assert.Equal(t, tt.isJSON, tt.cfg.IsJSON())
			assert.NotEmpty(t, tt.cfg.ServiceName)
		})
	}
}
