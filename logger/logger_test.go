package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, InitLogger(level))
			assert.NotNil(t, GetLogger())
		})
	}
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger("loud"))
}

func TestGetLogger_BeforeInit(t *testing.T) {
	globalLogger = nil
	assert.Same(t, slog.Default(), GetLogger())
}

func TestInitLoggerTo_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitLoggerTo(&buf, "warn"))

	GetLogger().Info("quiet")
	assert.Zero(t, buf.Len())

	GetLogger().Warn("loud", "lane", 3)
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "lane=3")
}
