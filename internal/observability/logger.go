package observability

import (
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const instrumentationScope = "github.com/nikolayk812/placeorder"

// NewLogger writes JSON to stdout and mirrors every entry to the global
// OpenTelemetry LoggerProvider.
func NewLogger(level zapcore.Level, service string) *zap.Logger {
	return newLogger(level, service, zapcore.Lock(os.Stdout), global.GetLoggerProvider())
}

func newLogger(level zapcore.Level, service string, out zapcore.WriteSyncer, provider log.LoggerProvider) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		out,
		level,
	)

	otelCore := otelzap.NewCore(instrumentationScope, otelzap.WithLoggerProvider(provider))

	return zap.New(zapcore.NewTee(otelCore, consoleCore),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", service)),
	)
}
