package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ApplyStats summarizes a successful Apply.
type ApplyStats struct {
	Statements int
	Duration   time.Duration
	// Slow counts statements that ran longer than the slow threshold.
	Slow int
}

// String returns a human-readable summary of the statistics.
func (s ApplyStats) String() string {
	return fmt.Sprintf("statements=%d duration=%s slow=%d", s.Statements, s.Duration, s.Slow)
}

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	log  *zap.Logger
	slow time.Duration
}

// DefaultSlowThreshold is the duration after which a statement is reported
// as slow.
const DefaultSlowThreshold = time.Second

// WithLogger logs every executed statement at debug level.
func WithLogger(l *zap.Logger) ApplyOption {
	return func(c *applyConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSlowThreshold sets the threshold for slow statement detection.
// Statements taking longer are logged at warn level and counted in
// ApplyStats.Slow. A zero or negative threshold disables the detection.
func WithSlowThreshold(d time.Duration) ApplyOption {
	return func(c *applyConfig) {
		c.slow = d
	}
}

// StatementError reports the statement Apply failed on.
type StatementError struct {
	Index     int
	Statement string
	Cause     error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	return fmt.Sprintf("dialect/sql: exec statement %d: %v", e.Index+1, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Cause
}

// Apply executes the statements in order inside a single transaction. On
// the first failure the transaction is rolled back and a *StatementError is
// returned; nothing of the script is left applied where the database
// supports transactional DDL.
func Apply(ctx context.Context, db TxBeginner, stmts []string, opts ...ApplyOption) (ApplyStats, error) {
	cfg := &applyConfig{log: zap.NewNop(), slow: DefaultSlowThreshold}
	for _, opt := range opts {
		opt(cfg)
	}
	var (
		stats ApplyStats
		start = time.Now()
	)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ApplyStats{}, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return ApplyStats{}, errors.Join(err, rollback(tx))
		}
		cfg.log.Debug("exec", zap.Int("index", i), zap.String("statement", stmt))
		began := time.Now()
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			serr := &StatementError{Index: i, Statement: stmt, Cause: err}
			return ApplyStats{}, errors.Join(serr, rollback(tx))
		}
		if took := time.Since(began); cfg.slow > 0 && took > cfg.slow {
			stats.Slow++
			cfg.log.Warn("slow statement", zap.Int("index", i), zap.Duration("duration", took), zap.String("statement", stmt))
		}
	}
	if err := tx.Commit(); err != nil {
		return ApplyStats{}, fmt.Errorf("dialect/sql: commit: %w", err)
	}
	stats.Statements, stats.Duration = len(stmts), time.Since(start)
	cfg.log.Info("script applied",
		zap.Int("statements", stats.Statements),
		zap.Duration("duration", stats.Duration),
		zap.Int("slow", stats.Slow),
	)
	return stats, nil
}

// Apply executes the statements on the driver's database.
func (d *Driver) Apply(ctx context.Context, stmts []string, opts ...ApplyOption) (ApplyStats, error) {
	return Apply(ctx, d.db, stmts, opts...)
}

type rollbacker interface {
	Rollback() error
}

func rollback(tx rollbacker) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("dialect/sql: rollback: %w", err)
	}
	return nil
}
