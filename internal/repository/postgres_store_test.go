package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresStore(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresStoreLoad(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"key", "value", "updated_at"}).
		AddRow("hurricane:study_user", `{"name":"An"}`, time.Now())
	mock.ExpectQuery("SELECT key, value, updated_at FROM kv_store").
		WithArgs("hurricane:study_user").
		WillReturnRows(rows)

	raw, found, err := store.Load(context.Background(), "hurricane:study_user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"name":"An"}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT key, value, updated_at FROM kv_store").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, found, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("hurricane:target_goal", "excellent", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), "hurricane:target_goal", []byte("excellent")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE key IN ($1,$2)")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.Delete(context.Background(), "a", "b"))
	require.NoError(t, store.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
