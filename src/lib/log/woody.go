package log

import (
	"fmt"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	logger, _ = zap.NewProduction()
}

// SetDebug swaps the production logger for a development one; the server
// enables this behind its --verbose flag.
func SetDebug() {
	logger, _ = zap.NewDevelopment()
}

func Printf(msg string, s ...any) {
	m := fmt.Sprintf(msg, s...)
	Info(m)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
