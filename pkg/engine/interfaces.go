package engine

import (
	"context"
	"database/sql"
	"strings"
)

// Adapter translates the uniform contract into native driver calls for one
// engine. Implementations hold no mutable state; every call is self-contained
// given the handles passed in.
type Adapter interface {
	// Connect opens a native connection for the descriptor and verifies it
	// with a ping, so that auth/network failures surface at open time.
	Connect(ctx context.Context, d Descriptor) (*sql.DB, error)

	// TranslatePlaceholders rewrites the uniform `?` parameter markers into
	// the driver's native syntax. It is a pure function: same input, same
	// output. Markers inside string literals, quoted identifiers and
	// comments are left untouched.
	TranslatePlaceholders(query string) string

	// Execute runs one already-translated statement inside the given
	// transaction. It never commits; commit is caller-controlled. Driver
	// errors come back as *ExecutionError with the native code preserved.
	Execute(ctx context.Context, tx *sql.Tx, query string, args []any) (*Result, error)
}

// Result holds the outcome of one statement execution. It is ephemeral and
// never persisted.
type Result struct {
	Columns      []string         `json:"columns,omitempty"`
	Rows         []map[string]any `json:"rows,omitempty"`
	RowCount     int              `json:"row_count"`
	RowsAffected int64            `json:"rows_affected"`
}

// First returns the first returned row, if any.
func (r *Result) First() (map[string]any, bool) {
	if r == nil || len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[0], true
}

// ReturnsRows reports whether the statement's leading keyword indicates a
// result set. Adapters use it to pick Query vs Exec on database/sql; engines
// with result-producing DML clauses (e.g. RETURNING) extend the check.
func ReturnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "DESCRIBE":
		return true
	}
	return false
}

// CollectRows drains rows into a Result. Values scan as `any`; []byte values
// are converted to string so row content compares identically across drivers
// that disagree on text column representation.
func CollectRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			rowMap[col] = val
		}
		result.Rows = append(result.Rows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RowCount = len(result.Rows)
	return result, nil
}
