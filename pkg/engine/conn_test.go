package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStubConn(t *testing.T, dsn string) (*Conn, *stubAdapter) {
	t.Helper()

	adapter := &stubAdapter{dsn: dsn}
	db, err := sql.Open("sqlbridge-fake", dsn)
	require.NoError(t, err)

	return &Conn{
		kind:    PostgreSQL,
		adapter: adapter,
		db:      db,
		logger:  zaptest.NewLogger(t),
	}, adapter
}

func TestExecuteTranslatesAndDelegates(t *testing.T) {
	conn, adapter := newStubConn(t, "execute-translate")
	ctx := context.Background()

	res, err := conn.Execute(ctx, "SELECT id FROM users WHERE email = ? AND active = ?")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	require.Len(t, adapter.executed, 1)
	assert.Equal(t, "SELECT id FROM users WHERE email = :1 AND active = :2", adapter.executed[0])
}

func TestExecuteBeginsTransactionLazily(t *testing.T) {
	conn, _ := newStubConn(t, "lazy-begin")
	ctx := context.Background()

	conns := fakeDrv.connsFor("lazy-begin")
	require.Empty(t, conns, "no native connection before first execute")

	_, err := conn.Execute(ctx, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, err)
	_, err = conn.Execute(ctx, "INSERT INTO t VALUES (?)", 2)
	require.NoError(t, err)

	conns = fakeDrv.connsFor("lazy-begin")
	require.Len(t, conns, 1)
	assert.Equal(t, 1, conns[0].begun, "one transaction spans both statements")
}

func TestCommitEndsTransaction(t *testing.T) {
	conn, _ := newStubConn(t, "commit-ends")
	ctx := context.Background()

	_, err := conn.Execute(ctx, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, err)
	require.NoError(t, conn.Commit())

	native := fakeDrv.connsFor("commit-ends")[0]
	assert.Equal(t, 1, native.committed)
	assert.False(t, conn.Failed())

	// The next execute begins a fresh transaction. database/sql may hand it
	// to a new pooled connection, so count begins across all of them.
	_, err = conn.Execute(ctx, "INSERT INTO t VALUES (?)", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, totalBegun("commit-ends"))
}

func totalBegun(dsn string) int {
	total := 0
	for _, c := range fakeDrv.connsFor(dsn) {
		total += c.begun
	}
	return total
}

func TestCommitWithoutWorkIsNoop(t *testing.T) {
	conn, _ := newStubConn(t, "commit-noop")
	require.NoError(t, conn.Commit())
}

func TestCommitFailureFlagsConnection(t *testing.T) {
	conn, _ := newStubConn(t, "failcommit-flag")
	ctx := context.Background()

	_, err := conn.Execute(ctx, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, err)

	err = conn.Commit()
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "commit", execErr.Op)

	// Connection stays open but is flagged; the caller decides what next.
	assert.True(t, conn.Failed())
	_, err = conn.Execute(ctx, "SELECT 1")
	assert.NoError(t, err, "connection remains usable after failed commit")
}

func TestRollbackWithoutWorkIsNoop(t *testing.T) {
	conn, _ := newStubConn(t, "rollback-noop")
	require.NoError(t, conn.Rollback())
}

func TestRollbackEndsTransaction(t *testing.T) {
	conn, _ := newStubConn(t, "rollback-ends")
	ctx := context.Background()

	_, err := conn.Execute(ctx, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, err)
	require.NoError(t, conn.Rollback())

	native := fakeDrv.connsFor("rollback-ends")[0]
	assert.Equal(t, 1, native.rolledBack)
	assert.Equal(t, 0, native.committed)
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, _ := newStubConn(t, "close-idempotent")

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "second close is a no-op")
}

func TestClosedConnectionRejectsOperations(t *testing.T) {
	conn, _ := newStubConn(t, "closed-rejects")
	require.NoError(t, conn.Close())

	_, err := conn.Execute(context.Background(), "SELECT 1")
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "execute", stateErr.Op)

	assert.ErrorAs(t, conn.Commit(), &stateErr)
	assert.ErrorAs(t, conn.Rollback(), &stateErr)
}

func TestCloseRollsBackPendingTransaction(t *testing.T) {
	conn, _ := newStubConn(t, "close-pending")
	ctx := context.Background()

	_, err := conn.Execute(ctx, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	native := fakeDrv.connsFor("close-pending")[0]
	assert.Equal(t, 1, native.rolledBack)
	assert.True(t, native.closed)
}

func TestExecuteErrorSurfacesTyped(t *testing.T) {
	conn, adapter := newStubConn(t, "execute-error")
	adapter.execErr = &ExecutionError{Engine: PostgreSQL, Op: "execute", Code: "23505", Err: errors.New("duplicate key")}

	_, err := conn.Execute(context.Background(), "INSERT INTO t VALUES (?)", 1)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "23505", execErr.Code)
}
