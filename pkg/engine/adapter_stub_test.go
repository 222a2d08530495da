package engine

import (
	"context"
	"database/sql"
	"strconv"
)

// stubAdapter records factory and execution calls for white-box tests.
// Connect opens the in-memory fake driver so transaction control flows
// through a real *sql.DB.
type stubAdapter struct {
	dsn string

	connectCalls   int
	lastDescriptor Descriptor
	connectErr     error

	executed   []string
	execResult *Result
	execErr    error
}

func (a *stubAdapter) Connect(ctx context.Context, d Descriptor) (*sql.DB, error) {
	a.connectCalls++
	a.lastDescriptor = d
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	return sql.Open("sqlbridge-fake", a.dsn)
}

func (a *stubAdapter) TranslatePlaceholders(query string) string {
	return ExpandPlaceholders(query, func(n int) string {
		return ":" + strconv.Itoa(n)
	})
}

func (a *stubAdapter) Execute(ctx context.Context, tx *sql.Tx, query string, args []any) (*Result, error) {
	a.executed = append(a.executed, query)
	if a.execErr != nil {
		return nil, a.execErr
	}
	if a.execResult != nil {
		return a.execResult, nil
	}
	return &Result{RowsAffected: 1}, nil
}
