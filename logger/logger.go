// Package logger wraps zap behind a small key/value logging interface.
package logger

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrInvalidLevel    = errors.New("invalid logging level")
	ErrInvalidEncoding = errors.New("invalid log encoding format")
)

// Interface is the logger used throughout newsorder. Fields are alternating
// keys and values, or zap.Field values.
type Interface interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Interface
	Sync() error
}

// Config selects level and encoding.
type Config struct {
	Level    string // debug, info, warn, error
	Encoding string // console or json
}

// Logger implements Interface on top of zap.
type Logger struct {
	zapLogger *zap.Logger
}

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New builds a logger writing to stderr, so stdout stays free for the run
// summary.
func New(config Config) (Interface, error) {
	if config.Level == "" {
		config.Level = "info"
	}
	if config.Encoding == "" {
		config.Encoding = "console"
	}

	level, ok := logLevels[config.Level]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLevel, config.Level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	switch config.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, config.Encoding)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return NewFromZap(zap.New(core)), nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(zapLogger *zap.Logger) Interface {
	return &Logger{zapLogger: zapLogger}
}

// NewNop returns a logger that discards everything.
func NewNop() Interface {
	return NewFromZap(zap.NewNop())
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.zapLogger.Debug(msg, toZapFields(fields)...)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.zapLogger.Info(msg, toZapFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.zapLogger.Warn(msg, toZapFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.zapLogger.Error(msg, toZapFields(fields)...)
}

// With creates a child logger carrying the given fields.
func (l *Logger) With(fields ...any) Interface {
	return &Logger{zapLogger: l.zapLogger.With(toZapFields(fields)...)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// toZapFields converts alternating key/value pairs. A trailing key without a
// value is kept with a nil value; a non-string key is stringified.
func toZapFields(fields []any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	zapFields := make([]zap.Field, 0, len(fields)/2+1)
	for i := 0; i < len(fields); i++ {
		if field, ok := fields[i].(zap.Field); ok {
			zapFields = append(zapFields, field)
			continue
		}

		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}

		if i+1 >= len(fields) {
			zapFields = append(zapFields, zap.Any(key, nil))
			break
		}

		if err, isErr := fields[i+1].(error); isErr {
			zapFields = append(zapFields, zap.NamedError(key, err))
		} else {
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
		i++
	}

	return zapFields
}
