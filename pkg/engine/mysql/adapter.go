// Package mysql implements the MySQL engine adapter on top of the
// go-sql-driver/mysql driver.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/everline-data/sqlbridge/pkg/engine"
)

// Adapter provides MySQL connectivity.
type Adapter struct{}

// buildDSN builds the driver DSN through mysql.Config, which handles
// escaping of special characters in credentials.
func buildDSN(d engine.Descriptor) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	cfg.DBName = d.Database
	cfg.ParseTime = true
	if tls := d.Option("tls", ""); tls != "" {
		cfg.TLSConfig = tls
	}
	return cfg.FormatDSN()
}

// Connect opens and pings a MySQL connection.
func (Adapter) Connect(ctx context.Context, d engine.Descriptor) (*sql.DB, error) {
	db, err := sql.Open("mysql", buildDSN(d))
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// TranslatePlaceholders is a passthrough: MySQL's native marker is already
// the uniform `?`.
func (Adapter) TranslatePlaceholders(query string) string {
	return query
}

// Execute runs one statement in the given transaction.
func (Adapter) Execute(ctx context.Context, tx *sql.Tx, query string, args []any) (*engine.Result, error) {
	if engine.ReturnsRows(query) {
		rows, err := tx.QueryContext(ctx, query, args...)
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

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrapError(err)
	}
	return &engine.Result{RowsAffected: affected}, nil
}

// wrapError preserves the MySQL error number for caller inspection.
func wrapError(err error) *engine.ExecutionError {
	execErr := &engine.ExecutionError{Engine: engine.MySQL, Op: "execute", Err: err}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		execErr.Code = strconv.Itoa(int(myErr.Number))
	}
	return execErr
}

// Ensure Adapter implements engine.Adapter at compile time.
var _ engine.Adapter = Adapter{}
