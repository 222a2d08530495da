package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Body is the unit of work run inside WithTransaction. The connection passed
// in is the only handle the body may use.
type Body func(ctx context.Context, conn *Conn) error

// WithTransaction opens a connection, runs body, and guarantees commit on
// normal return, rollback on error or panic, and exactly one Close on every
// exit path.
//
// Configuration and connect failures propagate unchanged. When the body
// fails, a secondary rollback error is demoted to a logged warning so the
// body's error stays the primary result. When commit fails, that failure is
// the overall result; no rollback is attempted on the possibly-poisoned
// connection before close.
//
// Calling WithTransaction recursively against the same underlying database
// resource is not supported; each invocation owns an independent connection.
func WithTransaction(ctx context.Context, params Params, logger *zap.Logger, body Body) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := Open(ctx, params, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("closing connection failed", zap.Error(cerr))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			if rerr := conn.Rollback(); rerr != nil {
				logger.Warn("rollback after panic failed", zap.Error(rerr))
			}
			err = fmt.Errorf("transaction body panicked: %v", r)
		}
	}()

	if err = body(ctx, conn); err != nil {
		if rerr := conn.Rollback(); rerr != nil {
			logger.Warn("rollback failed", zap.Error(rerr))
		}
		return err
	}

	return conn.Commit()
}
