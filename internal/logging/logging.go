// Package logging holds the process-wide structured logger. Commands
// install it once at startup; library code fetches it with L and must
// tolerate the no-op default, so packages stay usable without setup.
package logging

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Init builds and installs the global logger. level is a zap level name
// ("debug", "info", "warn", "error"). A non-empty file switches output
// to JSON with size-based rotation, which suits long ensemble batches;
// otherwise entries go to stderr through the console encoder.
func Init(level, file string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: parse level %q: %w", level, err)
	}

	var core zapcore.Core
	if file != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		core = zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, lvl)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), lvl)
	}

	logger.Store(zap.New(core))
	return nil
}

// L returns the current global logger, never nil.
func L() *zap.Logger {
	return logger.Load()
}

// Sync flushes buffered entries; called once at process exit.
func Sync() {
	_ = logger.Load().Sync()
}
