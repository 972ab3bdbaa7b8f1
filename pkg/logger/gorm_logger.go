package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger adapts zap to gorm's logger interface.
type gormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	// skipNotFound suppresses record-not-found errors, which are an
	// expected outcome for lookups, not a fault.
	skipNotFound bool
}

// NewGormLogger wraps a zap logger for use as gorm's query logger.
func NewGormLogger(logger *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration, skipNotFound bool) gormlogger.Interface {
	return &gormLogger{
		logger:        logger,
		level:         level,
		slowThreshold: slowThreshold,
		skipNotFound:  skipNotFound,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Sugar().Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Sugar().Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Sugar().Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= gormlogger.Error && !(l.skipNotFound && errors.Is(err, gorm.ErrRecordNotFound)):
		l.logger.Error("Query failed",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.logger.Warn("Slow query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", l.slowThreshold))
	case l.level >= gormlogger.Info:
		l.logger.Debug("Query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	}
}
