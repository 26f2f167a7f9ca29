package dbmetrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Обёртки обязаны реализовывать DBExecutor: голый *sql.DB им не является
// (его BeginTx возвращает *sql.Tx), поэтому репозитории и main принимают
// именно обёртку
var (
	_ DBExecutor = (*SQLDB)(nil)
	_ DBExecutor = (*DB)(nil)
)

func TestWrapSQL(t *testing.T) {
	t.Run("RoutesQueries", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		mock.ExpectQuery("SELECT 1").
			WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

		var one int
		err = WrapSQL(db).QueryRowContext(context.Background(), "SELECT 1").Scan(&one)

		require.NoError(t, err)
		assert.Equal(t, 1, one)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginTxReturnsUsableTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := WrapSQL(db).BeginTx(context.Background(), nil)

		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := WrapSQL(db)

	t.Run("DefaultWithoutTx", func(t *testing.T) {
		executor := GetExecutor(context.Background(), wrapped)

		assert.Equal(t, QueryExecutor(wrapped), executor)
	})

	t.Run("PrefersTxFromContext", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := wrapped.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		defer tx.Rollback()

		ctx := WithTx(context.Background(), tx)

		assert.True(t, IsInTransaction(ctx))
		assert.Equal(t, QueryExecutor(tx), GetExecutor(ctx, wrapped))
	})
}
