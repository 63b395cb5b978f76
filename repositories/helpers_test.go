package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	rows int64
	err  error
}

func (s stubResult) LastInsertId() (int64, error) { return 0, nil }
func (s stubResult) RowsAffected() (int64, error) { return s.rows, s.err }

func TestCheckAffectedRows(t *testing.T) {
	notFound := errors.New("missing")

	assert.NoError(t, checkAffectedRows(stubResult{rows: 1}, notFound))
	assert.ErrorIs(t, checkAffectedRows(stubResult{rows: 0}, notFound), notFound)

	driverErr := errors.New("driver gone")
	err := checkAffectedRows(stubResult{err: driverErr}, notFound)
	require.Error(t, err)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, notFound)
}

func TestIDArrayConversion(t *testing.T) {
	ids := []int{7, 3, 11}
	assert.Equal(t, []int64{7, 3, 11}, toInt64s(ids))
	assert.Equal(t, ids, toInts(toInt64s(ids)))
	assert.Empty(t, toInt64s(nil))
	assert.NotNil(t, toInts(nil))
}

// txDriver отдаёт соединения, у которых транзакции падают по заказу.
type txDriver struct {
	rollbackErr error
	commitErr   error
	commits     int
	rollbacks   int
}

func (d *txDriver) Open(string) (driver.Conn, error)             { return &txConn{d: d}, nil }
func (d *txDriver) Connect(context.Context) (driver.Conn, error) { return &txConn{d: d}, nil }
func (d *txDriver) Driver() driver.Driver                        { return d }

type txConn struct{ d *txDriver }

func (c *txConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *txConn) Close() error                        { return nil }
func (c *txConn) Begin() (driver.Tx, error)           { return &txTx{d: c.d}, nil }

type txTx struct{ d *txDriver }

func (t *txTx) Commit() error {
	t.d.commits++
	return t.d.commitErr
}

func (t *txTx) Rollback() error {
	t.d.rollbacks++
	return t.d.rollbackErr
}

func newTxRunner(t *testing.T, d *txDriver) TxRunner {
	t.Helper()
	db := sql.OpenDB(d)
	t.Cleanup(func() { _ = db.Close() })
	return NewTxRunner(db)
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	d := &txDriver{}
	err := newTxRunner(t, d).RunInTx(context.Background(), func(SQLExecutor) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, d.commits)
	assert.Zero(t, d.rollbacks)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	d := &txDriver{}
	fnErr := errors.New("insert failed")
	err := newTxRunner(t, d).RunInTx(context.Background(), func(SQLExecutor) error { return fnErr })
	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, 1, d.rollbacks)
	assert.Zero(t, d.commits)
}

func TestRunInTx_RollbackFailureKeepsBothErrors(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rbErr := errors.New("connection reset")
	d := &txDriver{rollbackErr: rbErr}
	fnErr := errors.New("insert failed")
	err := newTxRunner(t, d).RunInTx(context.Background(), func(SQLExecutor) error { return fnErr })

	require.Error(t, err)
	assert.ErrorIs(t, err, fnErr)
	assert.ErrorIs(t, err, rbErr)
	assert.Contains(t, logs.String(), `"msg":"transaction rollback failed"`)
	assert.Contains(t, logs.String(), "connection reset")
}

func TestRunInTx_CommitFailure(t *testing.T) {
	commitErr := errors.New("serialization failure")
	d := &txDriver{commitErr: commitErr}
	err := newTxRunner(t, d).RunInTx(context.Background(), func(SQLExecutor) error { return nil })
	assert.ErrorIs(t, err, commitErr)
}
