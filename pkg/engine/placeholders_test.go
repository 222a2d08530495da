package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dollarMarker(n int) string { return "$" + strconv.Itoa(n) }

func TestExpandPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "no markers",
			query:    "SELECT * FROM users",
			expected: "SELECT * FROM users",
		},
		{
			name:     "single marker",
			query:    "SELECT id FROM users WHERE email = ?",
			expected: "SELECT id FROM users WHERE email = $1",
		},
		{
			name:     "multiple markers numbered in order",
			query:    "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			expected: "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			name:     "marker inside string literal untouched",
			query:    "SELECT * FROM t WHERE note = 'what?' AND id = ?",
			expected: "SELECT * FROM t WHERE note = 'what?' AND id = $1",
		},
		{
			name:     "escaped quote inside literal",
			query:    "SELECT * FROM t WHERE note = 'it''s a ?' AND id = ?",
			expected: "SELECT * FROM t WHERE note = 'it''s a ?' AND id = $1",
		},
		{
			name:     "marker inside double-quoted identifier untouched",
			query:    `SELECT "why?" FROM t WHERE id = ?`,
			expected: `SELECT "why?" FROM t WHERE id = $1`,
		},
		{
			name:     "marker inside backtick identifier untouched",
			query:    "SELECT `odd?col` FROM t WHERE id = ?",
			expected: "SELECT `odd?col` FROM t WHERE id = $1",
		},
		{
			name:     "marker inside bracket identifier untouched",
			query:    "SELECT [odd?col] FROM t WHERE id = ?",
			expected: "SELECT [odd?col] FROM t WHERE id = $1",
		},
		{
			name:     "marker inside line comment untouched",
			query:    "SELECT 1 -- really?\nFROM t WHERE id = ?",
			expected: "SELECT 1 -- really?\nFROM t WHERE id = $1",
		},
		{
			name:     "marker inside block comment untouched",
			query:    "SELECT /* sure? */ id FROM t WHERE id = ?",
			expected: "SELECT /* sure? */ id FROM t WHERE id = $1",
		},
		{
			name:     "numbering resumes after literal",
			query:    "UPDATE t SET a = ?, note = '?' , b = ? WHERE id = ?",
			expected: "UPDATE t SET a = $1, note = '?' , b = $2 WHERE id = $3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPlaceholders(tt.query, dollarMarker))
		})
	}
}

func TestExpandPlaceholdersIsDeterministic(t *testing.T) {
	query := "SELECT * FROM orders WHERE customer_id = ? AND total > ? -- limit?"
	first := ExpandPlaceholders(query, dollarMarker)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExpandPlaceholders(query, dollarMarker))
	}
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, ReturnsRows("SELECT 1"))
	assert.True(t, ReturnsRows("  select id from t"))
	assert.True(t, ReturnsRows("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.True(t, ReturnsRows("EXPLAIN SELECT 1"))

	assert.False(t, ReturnsRows("INSERT INTO t VALUES (1)"))
	assert.False(t, ReturnsRows("UPDATE t SET a = 1"))
	assert.False(t, ReturnsRows("DELETE FROM t"))
	assert.False(t, ReturnsRows("CREATE TABLE t (id int)"))
	assert.False(t, ReturnsRows(""))
}
