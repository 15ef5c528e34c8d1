package log

import (
	"context"
	"time"

	"go.uber.org/zap/zapcore"
)

type key int

const (
	logContextKey key = iota
	requestIDKey
)

// WithContext 将日志器放入上下文，沿调用链传递
func (l *zapLogger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, logContextKey, l)
}

// WithRequestID 在上下文中记录请求ID，L(ctx) 输出时会自动带上
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// L 从上下文取出日志器；没有则使用全局日志器，并附加请求ID
func L(ctx context.Context) Logger {
	var l Logger = current()
	if ctx == nil {
		return l
	}
	if v, ok := ctx.Value(logContextKey).(Logger); ok {
		l = v
	}
	if rid, ok := ctx.Value(requestIDKey).(string); ok && rid != "" {
		l = l.WithValues("requestID", rid)
	}
	return l
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func milliSecondsDurationEncoder(d time.Duration, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendFloat64(float64(d) / float64(time.Millisecond))
}
