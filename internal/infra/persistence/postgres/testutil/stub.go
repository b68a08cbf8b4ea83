// Package testutil provides a stub database/sql driver that emulates the
// postgres state table: one payload per bucket.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

var driverSeq atomic.Uint64

// ErrUnsupportedStatement is returned for SQL the state store never issues.
var ErrUnsupportedStatement = errors.New("stub: unsupported statement")

type statementKind int

const (
	stmtUnknown statementKind = iota
	stmtCreateTable
	stmtUpsert
	stmtSelect
	stmtDelete
)

// classify maps a statement onto the shapes the state store issues.
func classify(query string) statementKind {
	q := strings.ToUpper(strings.Join(strings.Fields(query), " "))
	switch {
	case strings.HasPrefix(q, "CREATE TABLE IF NOT EXISTS STATE"):
		return stmtCreateTable
	case strings.HasPrefix(q, "INSERT INTO STATE(BUCKET,PAYLOAD)") && strings.Contains(q, "ON CONFLICT(BUCKET)"):
		return stmtUpsert
	case q == "SELECT PAYLOAD FROM STATE WHERE BUCKET = $1":
		return stmtSelect
	case q == "DELETE FROM STATE WHERE BUCKET = $1":
		return stmtDelete
	}
	return stmtUnknown
}

// StubConn keeps the state table in memory and records executed statements.
type StubConn struct {
	Execs     []string
	Buckets   map[string][]byte
	FailExec  bool
	FailQuery bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Buckets: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", driverSeq.Add(1))
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *StubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn. Every statement goes through the
// context-aware fast paths instead.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, ErrUnsupportedStatement }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn. The state store never opens transactions.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, ErrUnsupportedStatement }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailExec {
		return errors.New("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("exec fail")
	}
	switch classify(query) {
	case stmtCreateTable:
		return driver.RowsAffected(0), nil
	case stmtUpsert:
		bucket, err := bucketArg(args, 2)
		if err != nil {
			return nil, err
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("stub: payload must be bytes, got %T", args[1].Value)
		}
		c.Buckets[bucket] = append([]byte(nil), payload...)
		return driver.RowsAffected(1), nil
	case stmtDelete:
		bucket, err := bucketArg(args, 1)
		if err != nil {
			return nil, err
		}
		if _, ok := c.Buckets[bucket]; !ok {
			return driver.RowsAffected(0), nil
		}
		delete(c.Buckets, bucket)
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedStatement, query)
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if classify(query) != stmtSelect {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStatement, query)
	}
	if c.FailQuery {
		return nil, errors.New("query fail")
	}
	bucket, err := bucketArg(args, 1)
	if err != nil {
		return nil, err
	}
	rows := &payloadRows{}
	if payload, ok := c.Buckets[bucket]; ok {
		rows.payloads = [][]byte{append([]byte(nil), payload...)}
	}
	return rows, nil
}

func bucketArg(args []driver.NamedValue, want int) (string, error) {
	if len(args) != want {
		return "", fmt.Errorf("stub: expected %d args, got %d", want, len(args))
	}
	bucket, ok := args[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("stub: bucket must be a string, got %T", args[0].Value)
	}
	return bucket, nil
}

type payloadRows struct {
	payloads [][]byte
	idx      int
}

func (r *payloadRows) Columns() []string { return []string{"payload"} }
func (r *payloadRows) Close() error      { return nil }

func (r *payloadRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.payloads) {
		return io.EOF
	}
	dest[0] = r.payloads[r.idx]
	r.idx++
	return nil
}
