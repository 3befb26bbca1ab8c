package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

func Init(environment string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Logger, err = config.Build(zap.AddCaller())
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(Logger)

	return nil
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// active returns the initialized logger, or zap's global (a no-op until
// ReplaceGlobals) when a package logs before Init runs.
func active() *zap.Logger {
	if Logger != nil {
		return Logger
	}
	return zap.L()
}

func Debug(msg string, fields ...zap.Field) {
	active().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	active().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	active().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	active().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	active().Fatal(msg, fields...)
}
