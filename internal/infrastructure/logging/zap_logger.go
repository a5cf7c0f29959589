package logging

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	applogging "github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

// ZapLogger adapts a zap.Logger to the application Logger interface
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger builds a logger from the logging configuration
func NewZapLogger(cfg config.LoggingConfig) (*ZapLogger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableCaller = !cfg.IncludeCaller
	zcfg.DisableStacktrace = !cfg.IncludeStacktrace

	switch cfg.Output {
	case "file":
		zcfg.OutputPaths = []string{cfg.FilePath}
	case "stdout":
		zcfg.OutputPaths = []string{"stdout"}
	default:
		zcfg.OutputPaths = []string{"stderr"}
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &ZapLogger{logger: logger}, nil
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// Log writes one entry; metadata keys become structured fields in sorted order
func (l *ZapLogger) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, metadata[k]))
	}

	switch level {
	case applogging.LevelDebug:
		l.logger.Debug(message, fields...)
	case applogging.LevelWarn:
		l.logger.Warn(message, fields...)
	case applogging.LevelError:
		l.logger.Error(message, fields...)
	default:
		l.logger.Info(message, fields...)
	}
}

// Zap returns the underlying zap logger
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
