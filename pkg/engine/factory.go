package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Open validates params, selects the matching adapter and returns an open
// connection.
//
// Validation failures (unknown engine, missing host/database/user) return
// *ConfigurationError before any adapter is invoked; native connect failures
// return *ConnectionError carrying the engine and the underlying cause.
//
// If logger is nil, a no-op logger is used.
func Open(ctx context.Context, params Params, logger *zap.Logger) (*Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	adapter, ok := lookupAdapter(params.Engine)
	if !ok {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("no adapter registered for engine %q (not compiled in)", string(params.Engine)),
		}
	}

	d := params.descriptor()
	db, err := adapter.Connect(ctx, d)
	if err != nil {
		logger.Error("database connection failed",
			zap.String("engine", string(params.Engine)),
			zap.String("host", d.Host),
			zap.String("database", d.Database),
			zap.Error(err))
		return nil, &ConnectionError{Engine: params.Engine, Err: err}
	}

	logger.Info("database connection opened",
		zap.String("engine", string(params.Engine)),
		zap.String("host", d.Host),
		zap.Int("port", d.Port),
		zap.String("database", d.Database))

	return &Conn{
		kind:    params.Engine,
		adapter: adapter,
		db:      db,
		logger:  logger,
	}, nil
}
