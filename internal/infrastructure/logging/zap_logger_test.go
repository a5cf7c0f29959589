package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applogging "github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/logging"
)

func TestZapLogger_MapsLevelsAndFields(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))

	// Act
	logger.Log(applogging.LevelDebug, "search finished", map[string]interface{}{"blueprint_id": 1, "explored": 42})
	logger.Log(applogging.LevelWarn, "search budget exhausted", nil)
	logger.Log(applogging.LevelError, "failed to save run record", map[string]interface{}{"error": "disk full"})
	logger.Log("SOMETHING", "evaluation started", nil)

	// Assert
	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(42), entries[0].ContextMap()["explored"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "disk full", entries[2].ContextMap()["error"])
	assert.Equal(t, zapcore.InfoLevel, entries[3].Level)
}

func TestNewZapLogger(t *testing.T) {
	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, logger.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Zap().Core().Enabled(zapcore.WarnLevel))

	_, err = logging.NewZapLogger(config.LoggingConfig{Level: "loud", Format: "json", Output: "stderr"})
	assert.Error(t, err)
}
