// Package postgres implements the PostgreSQL engine adapter on top of the
// pgx driver's database/sql interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql

	"github.com/everline-data/sqlbridge/pkg/engine"
)

// Adapter provides PostgreSQL connectivity.
type Adapter struct{}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// User-provided fields must be URL-escaped to handle special characters in
// passwords (e.g. @, /, #, ?) that would otherwise break URL parsing.
func buildConnectionString(d engine.Descriptor) string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		url.QueryEscape(d.Database),
		d.Option("sslmode", "prefer"),
	)
}

// Connect opens and pings a PostgreSQL connection.
func (Adapter) Connect(ctx context.Context, d engine.Descriptor) (*sql.DB, error) {
	db, err := sql.Open("pgx", buildConnectionString(d))
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// TranslatePlaceholders rewrites `?` markers into PostgreSQL's positional
// $1, $2, ... parameters.
func (Adapter) TranslatePlaceholders(query string) string {
	return engine.ExpandPlaceholders(query, func(n int) string {
		return "$" + strconv.Itoa(n)
	})
}

// Execute runs one statement in the given transaction. Statements with a
// RETURNING clause produce rows like a query would.
func (Adapter) Execute(ctx context.Context, tx *sql.Tx, query string, args []any) (*engine.Result, error) {
	if engine.ReturnsRows(query) || containsReturning(query) {
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

func containsReturning(query string) bool {
	return strings.Contains(strings.ToUpper(query), " RETURNING ")
}

// wrapError preserves the PostgreSQL SQLSTATE for caller inspection.
func wrapError(err error) *engine.ExecutionError {
	execErr := &engine.ExecutionError{Engine: engine.PostgreSQL, Op: "execute", Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		execErr.Code = pgErr.Code
	}
	return execErr
}

// Ensure Adapter implements engine.Adapter at compile time.
var _ engine.Adapter = Adapter{}
