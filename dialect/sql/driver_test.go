package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/erddl/dialect"
)

var script = []string{
	"CREATE TABLE EMPLOYEE ( name VARCHAR , emp_id NUMBER NOT NULL );",
	"ALTER TABLE EMPLOYEE ADD CONSTRAINT PK_EMPLOYEE PRIMARY KEY (emp_id);",
}

func newMock(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return OpenDB(dialect.Postgres, db), mock
}

func TestApply(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		drv, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(script[0]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(script[1]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		stats, err := drv.Apply(context.Background(), script, WithLogger(zap.NewNop()))
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Statements)
		assert.Contains(t, stats.String(), "statements=2")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on failure", func(t *testing.T) {
		drv, mock := newMock(t)
		boom := errors.New("ORA-00955: name is already used")
		mock.ExpectBegin()
		mock.ExpectExec(script[0]).WillReturnError(boom)
		mock.ExpectRollback()

		_, err := Apply(context.Background(), drv.DB(), script)
		require.Error(t, err)

		var serr *StatementError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 0, serr.Index)
		assert.Equal(t, script[0], serr.Statement)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "exec statement 1")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slow statement", func(t *testing.T) {
		drv, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(script[0]).WillDelayFor(20 * time.Millisecond).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(script[1]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		core, logs := observer.New(zap.WarnLevel)
		stats, err := drv.Apply(context.Background(), script,
			WithLogger(zap.New(core)),
			WithSlowThreshold(5*time.Millisecond),
		)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Slow)
		slow := logs.FilterMessage("slow statement").All()
		require.Len(t, slow, 1)
		assert.Equal(t, script[0], slow[0].ContextMap()["statement"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		drv, mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

		_, err := drv.Apply(context.Background(), script)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: begin")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context", func(t *testing.T) {
		drv, mock := newMock(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := drv.Apply(ctx, script)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpen(t *testing.T) {
	_, err := Open(dialect.Oracle, "user/pass@db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no registered driver")

	_, err = Open("db2", "")
	require.Error(t, err)
}

func TestDialectMethod(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{dialect.Postgres, dialect.Postgres},
		{"mysql-traced", dialect.MySQL},
		{dialect.SQLite, dialect.SQLite},
		{"custom", "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenDB(tt.name, nil).Dialect())
		})
	}
}
