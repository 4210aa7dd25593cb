package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "warn")

	log.LogDebug("dropped")
	log.LogInfo("dropped too")
	log.LogWarn("kept")
	log.LogError("also kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[WARN] kept")
	assert.Contains(t, out, "[ERROR] also kept")
}

func TestConsoleLoggerTraceIsMostVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "trace")

	log.LogTrace("trace line")
	log.LogDebug("debug line")

	assert.Contains(t, buf.String(), "[TRACE] trace line")
	assert.Contains(t, buf.String(), "[DEBUG] debug line")
}

func TestConsoleLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "shouting")

	log.LogDebug("dropped")
	log.LogInfo("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	log := NewConsoleLogger(nil, "info")
	assert.NotPanics(t, func() { log.LogInfo("discarded") })
}

func TestConsoleLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	log.LogInfo("message")

	line := buf.String()
	require.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] \[INFO\] message\n$`, line)
}
