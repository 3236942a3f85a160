package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gi8lino/sprintreport/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.SetupLogger(logging.LogFormatJSON, false, &buf)
		logger.Info("hello", "sprint", "S1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "S1", entry["sprint"])
	})

	t.Run("text format hides debug by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.SetupLogger(logging.LogFormatText, false, &buf)
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("debug enabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := logging.SetupLogger(logging.LogFormatText, true, &buf)
		logger.Debug("visible")

		assert.Contains(t, buf.String(), "level=DEBUG")
	})
}
