// Package audit records administrative actions that have no other trail,
// such as punch deletion and workflow decisions.
package audit

import (
	"context"
	"time"

	"go-timeclock/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Entry struct {
	Action  string
	ActorID string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger writes audit entries through a logger named "audit".
func NewZapLogger(logger ...*zap.Logger) Logger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &zapLogger{logger: l.Named("audit")}
}

func (l *zapLogger) Log(ctx context.Context, entry Entry) {
	md := contextutil.ExtractMetadata(ctx)
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("actor_id", entry.ActorID),
		zap.String("message", entry.Message),
		zap.String("request_id", md.RequestID),
		zap.String("client_ip", md.ClientIP),
		zap.Any("meta", entry.Meta),
	)
}

type nopLogger struct{}

func (nopLogger) Log(context.Context, Entry) {}

func Nop() Logger {
	return nopLogger{}
}
