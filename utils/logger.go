package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log         = zap.NewNop()
	errorLogger *zap.Logger
	panicLogger *zap.Logger
)

// InitLogger builds the process logger plus the errors.log and panics.log sinks.
func InitLogger(logsDir string, debug bool) error {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	errCfg := cfg
	errCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	errCfg.OutputPaths = []string{filepath.Join(logsDir, "errors.log")}
	errCfg.ErrorOutputPaths = []string{"stderr"}
	errLog, err := errCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to open error log file: %w", err)
	}

	panicCfg := errCfg
	panicCfg.OutputPaths = []string{filepath.Join(logsDir, "panics.log")}
	panicLog, err := panicCfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return fmt.Errorf("failed to open panic log file: %w", err)
	}

	Log = logger
	errorLogger = errLog
	panicLogger = panicLog
	zap.ReplaceGlobals(logger)
	return nil
}

func LogError(err error, context string) {
	Log.Error(context, zap.Error(err))
	if errorLogger != nil {
		errorLogger.Error(context, zap.Error(err))
	}
}

func LogPanic(recovered interface{}, context string) {
	Log.Error("panic recovered", zap.String("context", context), zap.Any("panic", recovered), zap.Stack("stack"))
	if panicLogger != nil {
		panicLogger.Error(context, zap.Any("panic", recovered), zap.Stack("stack"))
	}
}

// SyncLogger flushes buffered entries; call before exit.
func SyncLogger() {
	_ = Log.Sync()
	if errorLogger != nil {
		_ = errorLogger.Sync()
	}
	if panicLogger != nil {
		_ = panicLogger.Sync()
	}
}
