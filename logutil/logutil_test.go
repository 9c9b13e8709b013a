package logutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)

	prev := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(prev) })

	Trace("tabelle gebaut", "tokens", 4)

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, `msg="tabelle gebaut"`)
	assert.Contains(t, out, "tokens=4")
	assert.Contains(t, out, "source=logutil_test.go:")
}

func TestNewLoggerFiltersTrace(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(NewLogger(&buf, slog.LevelInfo))
	t.Cleanup(func() { slog.SetDefault(prev) })

	Trace("unsichtbar")
	slog.Info("sichtbar")

	assert.NotContains(t, buf.String(), "unsichtbar")
	assert.Contains(t, buf.String(), "level=INFO")
}
