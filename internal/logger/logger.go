// Package logger builds the application's zap logger.
package logger

import (
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agentdesk/agent-scheduler/internal/config"
)

var atomicLevel zap.AtomicLevel

// Build sets up the base logger: stdout for info-and-below, stderr for
// errors, with an atomic level that follows config file changes.
func Build(cfg config.Logger) *zap.Logger {
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		log.Fatalf("Couldn't parse initial log level %q: %v", cfg.Level, err)
	}
	atomicLevel = lvl

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return atomicLevel.Enabled(lvl) && lvl < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority),
	)

	logger := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(logger)

	viper.OnConfigChange(func(in fsnotify.Event) {
		SetLevel(viper.GetString("logger.level"))
	})
	viper.WatchConfig()

	return logger
}

// SetLevel changes the log level dynamically.
func SetLevel(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Error("Couldn't parse log level", zap.String("value", level), zap.Error(err))
		return
	}
	atomicLevel.SetLevel(lvl)
	zap.L().Info("Log level updated", zap.String("value", level))
}
