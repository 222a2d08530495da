package engine

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/everline-data/sqlbridge/pkg/logging"
)

// Conn is the unified handle over one open native connection.
//
// A Conn owns its *sql.DB exclusively and keeps at most one native
// transaction open at a time: the transaction begins lazily on the first
// Execute and ends on Commit or Rollback. Statements never auto-commit.
//
// A Conn is exclusively owned by one goroutine; it performs no internal
// locking. Callers needing concurrency open independent connections.
type Conn struct {
	kind    Kind
	adapter Adapter
	db      *sql.DB
	tx      *sql.Tx
	logger  *zap.Logger
	closed  bool
	failed  bool
}

// Engine reports which engine this connection talks to.
func (c *Conn) Engine() Kind { return c.kind }

// Failed reports whether a native commit failed on this connection. The
// connection stays open after a failed commit; the caller decides whether to
// retry or close.
func (c *Conn) Failed() bool { return c.failed }

// Execute runs one statement inside the connection's transaction, beginning
// it if none is open. The query uses uniform `?` markers; translation to the
// native syntax happens here. Driver-reported SQL errors come back as
// *ExecutionError with the engine error code preserved.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	if c.closed {
		return nil, &StateError{Op: "execute"}
	}

	if c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, &ExecutionError{Engine: c.kind, Op: "begin", Err: err}
		}
		c.tx = tx
		c.logger.Debug("transaction begun", zap.String("engine", string(c.kind)))
	}

	translated := c.adapter.TranslatePlaceholders(query)
	result, err := c.adapter.Execute(ctx, c.tx, translated, args)
	if err != nil {
		c.logger.Error("statement failed",
			zap.String("engine", string(c.kind)),
			zap.String("query", logging.SanitizeQuery(translated)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, err
	}

	c.logger.Debug("statement executed",
		zap.String("query", logging.SanitizeQuery(translated)),
		zap.Int("rows_returned", result.RowCount),
		zap.Int64("rows_affected", result.RowsAffected))
	return result, nil
}

// Commit commits the open transaction. With no pending work it is a no-op.
// On native commit failure the connection remains open but is flagged failed
// and an *ExecutionError is returned; the caller decides whether to retry or
// close.
func (c *Conn) Commit() error {
	if c.closed {
		return &StateError{Op: "commit"}
	}
	if c.tx == nil {
		c.logger.Debug("commit with no pending transaction")
		return nil
	}

	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		c.failed = true
		c.logger.Error("commit failed",
			zap.String("engine", string(c.kind)),
			zap.String("error", logging.SanitizeError(err)))
		return &ExecutionError{Engine: c.kind, Op: "commit", Err: err}
	}

	c.logger.Info("transaction committed", zap.String("engine", string(c.kind)))
	return nil
}

// Rollback reverses all statements executed since the transaction began.
// With no pending work it is a no-op, never an error.
func (c *Conn) Rollback() error {
	if c.closed {
		return &StateError{Op: "rollback"}
	}
	if c.tx == nil {
		c.logger.Debug("rollback with no pending transaction")
		return nil
	}

	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		c.logger.Error("rollback failed",
			zap.String("engine", string(c.kind)),
			zap.String("error", logging.SanitizeError(err)))
		return &ExecutionError{Engine: c.kind, Op: "rollback", Err: err}
	}

	c.logger.Info("transaction rolled back", zap.String("engine", string(c.kind)))
	return nil
}

// Close releases the native handle. Closing an already-closed connection is
// a no-op. An open transaction is rolled back before the handle is released;
// uncommitted work would otherwise be discarded by the driver's disconnect
// semantics anyway.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil && err != sql.ErrTxDone {
			c.logger.Warn("rollback during close failed",
				zap.String("error", logging.SanitizeError(err)))
		}
		c.tx = nil
	}

	err := c.db.Close()
	if err != nil {
		c.logger.Warn("closing native handle failed",
			zap.String("error", logging.SanitizeError(err)))
		return err
	}

	c.logger.Info("database connection closed", zap.String("engine", string(c.kind)))
	return nil
}
