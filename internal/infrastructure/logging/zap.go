package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	applog "github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
)

// ZapLogger adapts a zap logger to the application Logger interface
type ZapLogger struct {
	logger *zap.Logger
}

// New builds a zap logger from the logging configuration.
//
// The primary output (stdout, stderr or a rotated file) uses the configured
// encoding. When a file path is given alongside a console output, a JSON
// copy is written to the rotated file as well.
func New(appName string, cfg config.LoggingConfig) (*ZapLogger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var fileWriter io.Writer
	if cfg.FilePath != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    max(1, cfg.Rotation.MaxSize),
			MaxBackups: max(0, cfg.Rotation.MaxBackups),
			MaxAge:     max(0, cfg.Rotation.MaxAge),
			Compress:   cfg.Rotation.Compress,
		}
	}

	var primary zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout":
		primary = zapcore.Lock(os.Stdout)
	case "file":
		if fileWriter == nil {
			return nil, fmt.Errorf("file output needs a file path")
		}
		primary = zapcore.AddSync(fileWriter)
	default:
		primary = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder(cfg.Format, encoderCfg), primary, atomicLevel)
	if fileWriter != nil && cfg.Output != "file" {
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(encoder("json", encoderCfg), zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	return NewFromCore(appName, core, cfg), nil
}

// NewFromCore wraps an existing zap core; used by tests to observe output
func NewFromCore(appName string, core zapcore.Core, cfg config.LoggingConfig) *ZapLogger {
	var opts []zap.Option
	if cfg.IncludeCaller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if cfg.IncludeStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}
	return &ZapLogger{logger: zap.New(core, opts...).Named(appName)}
}

func encoder(format string, base zapcore.EncoderConfig) zapcore.Encoder {
	if format == "json" {
		base.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(base)
	}
	base.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(base)
}

// Log implements the application Logger
func (l *ZapLogger) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	switch level {
	case applog.LevelDebug:
		l.logger.Debug(message, fields...)
	case applog.LevelWarn:
		l.logger.Warn(message, fields...)
	case applog.LevelError:
		l.logger.Error(message, fields...)
	default:
		l.logger.Info(message, fields...)
	}
}

// Zap exposes the underlying logger
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
