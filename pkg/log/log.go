// Package log 基于 zap 的全局日志器。
// 非错误日志（Debug/Info/Warn）写入 OutputPaths，Error 及以上级别写入 ErrorOutputPaths。
package log

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 是带上下文字段的日志器
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	WithValues(keysAndValues ...interface{}) Logger
	WithContext(ctx context.Context) context.Context
	Flush()
}

var _ Logger = &zapLogger{}

type zapLogger struct {
	z *zap.Logger
}

var (
	mu      sync.RWMutex
	logger  *zapLogger
	options *Options
)

func init() {
	Init(NewOptions())
}

// Init 根据配置重建全局日志器，可重复调用
func Init(opts *Options) {
	l, err := build(opts)
	if err != nil {
		panic(err)
	}

	mu.Lock()
	defer mu.Unlock()
	options = opts
	logger = &zapLogger{z: l}
	zap.RedirectStdLog(l)
}

func build(opts *Options) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: milliSecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if opts.EnableColor && isatty.IsTerminal(os.Stdout.Fd()) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(opts.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case consoleFormat:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case jsonFormat:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unsupported log format %q (console|json)", opts.Format)
	}

	stdSyncer, err := openSyncers(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	errSyncer, err := openSyncers(opts.ErrorOutputPaths)
	if err != nil {
		return nil, err
	}

	stdCore := zapcore.NewCore(encoder, stdSyncer, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel && lvl >= zapLevel
	}))
	errCore := zapcore.NewCore(encoder, errSyncer, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel && lvl >= zapLevel
	}))

	zapOpts := []zap.Option{zap.AddStacktrace(zapcore.PanicLevel), zap.AddCallerSkip(1)}
	if opts.EnableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(stdCore, errCore), zapOpts...), nil
}

func openSyncers(paths []string) (zapcore.WriteSyncer, error) {
	writers := make([]zapcore.WriteSyncer, 0, len(paths))
	for _, path := range paths {
		switch path {
		case "stdout":
			writers = append(writers, zapcore.AddSync(os.Stdout))
		case "stderr":
			writers = append(writers, zapcore.AddSync(os.Stderr))
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file: %w", err)
			}
			writers = append(writers, zapcore.AddSync(f))
		}
	}
	return zapcore.NewMultiWriteSyncer(writers...), nil
}

func current() *zapLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func (l *zapLogger) Debugf(format string, args ...interface{}) { l.z.Sugar().Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})  { l.z.Sugar().Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})  { l.z.Sugar().Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...interface{}) { l.z.Sugar().Errorf(format, args...) }

func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Errorw(msg, keysAndValues...)
}

// WithValues 返回附带固定键值对的新日志器
func (l *zapLogger) WithValues(keysAndValues ...interface{}) Logger {
	return &zapLogger{z: l.z.Sugar().With(keysAndValues...).Desugar()}
}

func (l *zapLogger) Flush() {
	_ = l.z.Sync()
}

// ZapLogger 返回底层 zap 日志器，供需要 *zap.Logger 的第三方组件使用
func ZapLogger() *zap.Logger {
	return current().z
}

func GetOptions() *Options {
	mu.RLock()
	defer mu.RUnlock()
	return options
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

func Debugw(msg string, keysAndValues ...interface{}) { current().Debugw(msg, keysAndValues...) }
func Infow(msg string, keysAndValues ...interface{})  { current().Infow(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { current().Warnw(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...interface{}) { current().Errorw(msg, keysAndValues...) }

func WithValues(keysAndValues ...interface{}) Logger { return current().WithValues(keysAndValues...) }

// Flush 程序退出前调用，确保缓冲日志落盘
func Flush() { current().Flush() }
