package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultSlowStatement   = 200 * time.Millisecond
	defaultMaxStatementLen = 2048
)

// SQLLogger sends gorm statement logs to zap. Each entry carries the request,
// sync run and trace ids found on the statement context.
type SQLLogger struct {
	log          *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	logNotFound  bool
	maxStatement int
}

// SQLOption configures an SQLLogger
type SQLOption func(*SQLLogger)

// WithSlowThreshold sets the duration above which a statement logs at warn.
// Zero disables slow statement reporting.
func WithSlowThreshold(d time.Duration) SQLOption {
	return func(l *SQLLogger) { l.slow = d }
}

// WithRecordNotFound logs gorm.ErrRecordNotFound as a failure. Repositories
// translate it to domain errors, so it is skipped by default.
func WithRecordNotFound() SQLOption {
	return func(l *SQLLogger) { l.logNotFound = true }
}

// WithMaxStatementLength truncates logged SQL. Product upserts during a sync
// batch many rows into one statement. Zero keeps statements whole.
func WithMaxStatementLength(n int) SQLOption {
	return func(l *SQLLogger) { l.maxStatement = n }
}

// NewSQLLogger returns a gorm logger writing through base at the given level
func NewSQLLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...SQLOption) *SQLLogger {
	l := &SQLLogger{
		log:          base.Named("sql").WithOptions(zap.AddCallerSkip(3)),
		level:        level,
		slow:         defaultSlowStatement,
		maxStatement: defaultMaxStatementLen,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy at the new level
func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *SQLLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	if ce := l.log.Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write(correlationFields(ctx)...)
	}
}

// Trace logs one executed statement. Failures log at error, slow statements
// at warn and everything else at debug. fc is only evaluated when the entry
// will actually be written.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl zapcore.Level
		msg string
	)
	switch {
	case err != nil && l.level >= gormlogger.Error:
		if !l.logNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		lvl, msg = zapcore.ErrorLevel, "Statement failed"
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "Slow statement"
	case l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "Statement"
	default:
		return
	}

	ce := l.log.Check(lvl, msg)
	if ce == nil {
		return
	}
	sql, rows := fc()
	fields := append(correlationFields(ctx),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", truncateStatement(sql, l.maxStatement)),
	)
	if lvl == zapcore.WarnLevel {
		fields = append(fields, zap.Duration("threshold", l.slow))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

func correlationFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetSyncRunID(ctx); id != "" {
		fields = append(fields, zap.String("sync_run_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return fields
}

// truncateStatement cuts sql to at most limit bytes on a rune boundary
func truncateStatement(sql string, limit int) string {
	if limit <= 0 || len(sql) <= limit {
		return sql
	}
	for limit > 0 && !utf8.RuneStart(sql[limit]) {
		limit--
	}
	return sql[:limit] + "...(truncated)"
}

// GormLevel maps the application log level onto gorm's levels. Debug and
// info both enable statement logging.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
