// Package mssql implements the SQL Server engine adapter on top of the
// microsoft/go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/everline-data/sqlbridge/pkg/engine"
)

// Adapter provides SQL Server connectivity with SQL authentication.
type Adapter struct{}

// buildConnectionString builds a sqlserver:// URL. Driver options
// (encrypt, TrustServerCertificate, connection timeout) pass through from
// the descriptor.
func buildConnectionString(d engine.Descriptor) string {
	query := url.Values{}
	query.Add("database", d.Database)
	query.Add("encrypt", d.Option("encrypt", "false"))

	if trust := d.Option("trust_server_certificate", ""); trust != "" {
		query.Add("TrustServerCertificate", trust)
	}
	if timeout := d.Option("connection_timeout", ""); timeout != "" {
		query.Add("connection timeout", timeout)
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		query.Encode(),
	)
}

// Connect opens and pings a SQL Server connection.
func (Adapter) Connect(ctx context.Context, d engine.Descriptor) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", buildConnectionString(d))
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// TranslatePlaceholders rewrites `?` markers into SQL Server's named
// @p1, @p2, ... parameters.
func (Adapter) TranslatePlaceholders(query string) string {
	return engine.ExpandPlaceholders(query, func(n int) string {
		return "@p" + strconv.Itoa(n)
	})
}

// Execute runs one statement in the given transaction. Positional args are
// bound as the named parameters the @pN markers refer to.
func (Adapter) Execute(ctx context.Context, tx *sql.Tx, query string, args []any) (*engine.Result, error) {
	namedArgs := make([]any, len(args))
	for i, arg := range args {
		namedArgs[i] = sql.Named(fmt.Sprintf("p%d", i+1), arg)
	}

	if engine.ReturnsRows(query) {
		rows, err := tx.QueryContext(ctx, query, namedArgs...)
		if err != nil {
			return nil, wrapError(err)
		}
		defer rows.Close()

		result, err := engine.CollectRows(rows)
		if err != nil {
			return nil, wrapError(err)
		}
		return result, nil
	}

	res, err := tx.ExecContext(ctx, query, namedArgs...)
	if err != nil {
		return nil, wrapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrapError(err)
	}
	return &engine.Result{RowsAffected: affected}, nil
}

// wrapError preserves the SQL Server error number for caller inspection.
func wrapError(err error) *engine.ExecutionError {
	execErr := &engine.ExecutionError{Engine: engine.SQLServer, Op: "execute", Err: err}
	var srvErr mssqldb.Error
	if errors.As(err, &srvErr) {
		execErr.Code = strconv.Itoa(int(srvErr.Number))
	}
	return execErr
}

// Ensure Adapter implements engine.Adapter at compile time.
var _ engine.Adapter = Adapter{}
