package database

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapTracer logs pgx query traces. Statements are logged only when the
// logger has debug enabled; failures always are.
type zapTracer struct {
	logger *zap.Logger
}

func newTraceLog(l *zap.Logger) *tracelog.TraceLog {
	level := tracelog.LogLevelError
	if l.Core().Enabled(zapcore.DebugLevel) {
		level = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{
		Logger:   &zapTracer{logger: l.Named("pgx")},
		LogLevel: level,
	}
}

func (t *zapTracer) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := []zap.Field{
		zap.Any("sql", data["sql"]),
		zap.Any("time", data["time"]),
	}
	if err, ok := data["err"].(error); ok {
		fields = append(fields, zap.Error(err))
	}

	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		t.logger.Debug(msg, fields...)
	case tracelog.LogLevelInfo:
		t.logger.Info(msg, fields...)
	case tracelog.LogLevelWarn:
		t.logger.Warn(msg, fields...)
	default:
		t.logger.Error(msg, fields...)
	}
}
