package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("posted", zap.String("txn_id", "2024-03-001"))
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "posted", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "2024-03-001", entry["txn_id"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", "", &buf)
	require.NoError(t, err)

	log.Warn("balance sheet does not balance", zap.String("discrepancy", "0.10"))
	require.NoError(t, log.Sync())
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "balance sheet does not balance")
	assert.Contains(t, buf.String(), `"discrepancy": "0.10"`)
}

func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "console", &buf)
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "console", &bytes.Buffer{})
	assert.ErrorContains(t, err, "log level")

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "xml")
}
