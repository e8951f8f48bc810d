package applog

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(l *Logger) *bytes.Buffer {
	var buf bytes.Buffer
	l.Logger = log.New(&buf, "", 0)
	return &buf
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	l := New("warn", false)
	buf := capture(l)

	l.Debug("should not appear")
	l.Info("also should not appear")
	assert.Empty(t, buf.String())

	l.Warn("this one shows")
	assert.Contains(t, buf.String(), "this one shows")
}

func TestLogger_TextIncludesKeyValuePairs(t *testing.T) {
	l := New("debug", false)
	buf := capture(l)

	l.Info("packed container", "containers", 3, "strategy", "space")
	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "packed container")
	assert.Contains(t, line, "containers=3")
	assert.Contains(t, line, "strategy=space")
}

func TestLogger_ErrorValueFormatsAsMessage(t *testing.T) {
	l := New("debug", false)
	buf := capture(l)

	l.Error("build failed", "err", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")
}

func TestLogger_JSONMode(t *testing.T) {
	l := New("debug", true)
	buf := capture(l)

	l.Info("packed container", "containers", 3)
	line := strings.TrimSpace(buf.String())

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "INFO", decoded["level"])
	assert.Equal(t, "packed container", decoded["msg"])
	assert.Equal(t, float64(3), decoded["containers"])
}

func TestNewNoop_EmitsNothing(t *testing.T) {
	l := NewNoop()
	buf := capture(l)

	l.Error("this must not print")
	assert.Empty(t, buf.String())
}
