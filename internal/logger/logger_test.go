package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	require.NoError(t, cfg.Validate())

	bad := []Config{
		{Level: "loud", Format: "json", Output: "stderr"},
		{Level: "info", Format: "xml", Output: "stderr"},
		{Level: "info", Format: "json", Output: "file"},
	}
	for _, c := range bad {
		assert.Error(t, c.Validate(), "%+v", c)
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "info", Format: "json"}
	log := NewWithWriter(&cfg, &buf, "extract")

	log.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug must be filtered at info level")

	log.WithFields(map[string]any{FieldRun: "r1"}).WithError(errors.New("boom")).Info("done", map[string]any{"ranges": 2})

	entry := decode(t, &buf)
	assert.Equal(t, "done", entry["message"])
	assert.Equal(t, "extract", entry[FieldComponent])
	assert.Equal(t, "r1", entry[FieldRun])
	assert.Equal(t, "boom", entry["error"])
	assert.InDelta(t, 2, entry["ranges"], 0)
}

func TestWithComponentAndZerolog(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "debug", Format: "json"}
	zl := NewWithWriter(&cfg, &buf, "").WithComponent("ranges").Zerolog()

	zl.Debug().Msg("range opened")
	entry := decode(t, &buf)
	assert.Equal(t, "ranges", entry[FieldComponent])
	assert.Equal(t, "debug", entry["level"])
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "warn", Format: "console", NoColor: true}
	NewWithWriter(&cfg, &buf, "cli").Warn("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNop(t *testing.T) {
	Nop().Error("nothing")
}
