package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "warn")

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "debug").With("run_id", "abc123")

	l.Debug("[scraper] hello")

	out := buf.String()
	assert.Contains(t, out, "[scraper] hello")
	assert.Contains(t, out, "abc123")
}

func TestParseLevelFallback(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
	assert.Equal(t, "debug", parseLevel(" DEBUG ").String())
}
