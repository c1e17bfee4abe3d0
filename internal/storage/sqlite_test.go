package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "kamus-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_PutGetOverwrite(t *testing.T) {
	db := testSQLite(t)

	require.NoError(t, db.Put("kamus_ai_data", []byte(`[]`)))
	require.NoError(t, db.Put("kamus_ai_data", []byte(`[{"id":"a"}]`)))

	got, err := db.Get("kamus_ai_data")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
}

func TestSQLite_MissingKey(t *testing.T) {
	db := testSQLite(t)

	_, err := db.Get("absent")
	assert.True(t, errors.Is(err, os.ErrNotExist), "err = %v", err)
}

func TestSQLite_Delete(t *testing.T) {
	db := testSQLite(t)

	require.NoError(t, db.Put("k", []byte("v")))
	require.NoError(t, db.Delete("k"))
	_, err := db.Get("k")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, db.Delete("k"))
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put("k", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestSQLite_QueryErrorIsWrapped(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	db := newSQLite(conn)
	_, err = db.Get("k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.False(t, errors.Is(err, os.ErrNotExist))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_PutErrorIsWrapped(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO kv").
		WillReturnError(errors.New("database is locked"))

	db := newSQLite(conn)
	err = db.Put("k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
