package engine

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
)

// fakeDriver is a minimal database/sql driver used to observe the native
// transaction lifecycle (begin/commit/rollback/close) without a real
// database. A DSN containing "failcommit" yields connections whose commits
// fail.
type fakeDriver struct {
	mu    sync.Mutex
	conns map[string][]*fakeConn
}

var fakeDrv = &fakeDriver{conns: make(map[string][]*fakeConn)}

func init() {
	sql.Register("sqlbridge-fake", fakeDrv)
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	c := &fakeConn{failCommit: strings.Contains(name, "failcommit")}
	d.mu.Lock()
	d.conns[name] = append(d.conns[name], c)
	d.mu.Unlock()
	return c, nil
}

// connsFor returns every native connection opened for the DSN.
func (d *fakeDriver) connsFor(name string) []*fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[name]
}

type fakeConn struct {
	failCommit bool
	begun      int
	committed  int
	rolledBack int
	closed     bool
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("fake driver does not prepare statements")
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	c.begun++
	return &fakeTx{conn: c}, nil
}

type fakeTx struct {
	conn *fakeConn
}

func (tx *fakeTx) Commit() error {
	if tx.conn.failCommit {
		return errors.New("fake commit failure")
	}
	tx.conn.committed++
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.conn.rolledBack++
	return nil
}
