package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/logging"
)

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = logging.ParseLevel(" Warn ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logging.ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.New(&buf, logging.Options{Level: "info", Format: "json", App: "FinFlow"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("report generated", "rows", 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report generated", entry["msg"])
	assert.Equal(t, "FinFlow", entry["app"])
	assert.InDelta(t, 12, entry["rows"], 0)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, logging.Options{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
