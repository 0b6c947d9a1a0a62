package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statistics-aggregator/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesJSONWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.MustNew("debug", logging.WithWriter(&buf))

	logger.WithTraceID("trace-1").Info("component served", logging.AttachError(errors.New("boom"), "component", "usersChart")...)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "component served", entries[0]["msg"])
	assert.Equal(t, "trace-1", entries[0]["traceId"])
	assert.Equal(t, "usersChart", entries[0]["component"])
	assert.Equal(t, "boom", entries[0]["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.MustNew("warn", logging.WithWriter(&buf))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger := logging.Discard()
	ctx := logger.WithContext(context.Background())

	got, ok := logging.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, logger, got)

	fallback := logging.Discard()
	assert.Same(t, fallback, logging.FromContextOr(context.Background(), fallback))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *logging.Logger
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		logger.WithTraceID("x").Error("nothing")
	})
	assert.Nil(t, logging.AttachError(nil))
}
