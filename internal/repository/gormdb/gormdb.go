// Package gormdb implements the repository interfaces on top of gorm. It is
// the production backend when DB_DRIVER=postgres; tests run it against an
// in-memory SQLite dialector.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sakif/job-board/internal/repository"
)

var _ repository.Store = (*Repository)(nil)

// Repository wraps a gorm handle. Every method scopes the handle with the
// caller's context.
type Repository struct {
	db *gorm.DB
}

// Options tunes the connection pool. Zero values leave database/sql defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
	Logger          *slog.Logger
}

// OpenPostgres connects to PostgreSQL using a libpq-style or URL DSN.
func OpenPostgres(dsn string, opts Options) (*Repository, error) {
	return New(postgres.Open(dsn), opts)
}

// New opens the database behind dialector and migrates the schema.
//
// TranslateError makes gorm map driver-specific constraint errors to
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated, so the methods below
// never look at driver error codes.
func New(dialector gorm.Dialector, opts Options) (*Repository, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	slow := opts.SlowQuery
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newSlogLogger(log, slow),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb: connecting: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormdb: getting database handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gormdb: pinging: %w", err)
	}

	// Order matters: applications reference jobs, jobs reference users.
	if err := db.AutoMigrate(&userRecord{}, &jobRecord{}, &applicationRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gormdb: migrating: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// slogLogger routes gorm's logging into slog. Queries log at debug, slow
// queries at warn, failures at error. ErrRecordNotFound is expected control
// flow here and is not logged.
type slogLogger struct {
	log   *slog.Logger
	slow  time.Duration
	level logger.LogLevel
}

func newSlogLogger(log *slog.Logger, slow time.Duration) *slogLogger {
	return &slogLogger{log: log.With("component", "gorm"), slow: slow, level: logger.Warn}
}

func (l *slogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{"duration", elapsed, "rows", rows, "sql", sql}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		l.log.ErrorContext(ctx, "query failed", append(attrs, "error", err)...)
	case elapsed > l.slow && l.level >= logger.Warn:
		l.log.WarnContext(ctx, "slow query", attrs...)
	case l.level >= logger.Info:
		l.log.DebugContext(ctx, "query", attrs...)
	}
}
