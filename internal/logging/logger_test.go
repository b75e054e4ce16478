package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn, "test")

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [test] shown 3")
	assert.Contains(t, out, "[ERROR] [test] shown 4")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	var typed *baseLogger
	assert.Equal(t, Nop(), OrNop(typed))

	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelDebug, "")
	OrNop(logger).Info("kept")
	assert.True(t, strings.Contains(buf.String(), "kept"))
}
