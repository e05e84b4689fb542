package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	t.Run("InvalidPath", func(t *testing.T) {
		db, err := NewDB(t.TempDir())
		assert.NoError(t, err) // sql.Open is lazy

		err = db.D.Ping()
		assert.Error(t, err)
	})

	t.Run("ValidPath", func(t *testing.T) {
		db, err := NewDB(":memory:")
		assert.NoError(t, err)
		assert.NotNil(t, db)
		defer db.Close()

		err = db.D.Ping()
		assert.NoError(t, err)
	})
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Init(ctx))
	// second run has nothing to apply
	require.NoError(t, db.Init(ctx))

	rows, err := db.D.Query("SELECT name FROM sqlite_master WHERE type='table'")
	require.NoError(t, err)
	var tables []string
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	rows.Close()

	assert.Contains(t, tables, "downloads")
	assert.Contains(t, tables, "tags")
	assert.Contains(t, tables, "file_tags")
	assert.Contains(t, tables, "auto_tag_rules")
}

func TestInitOnFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fftpeg.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Init(ctx))
	_, err = db.D.Exec("INSERT INTO tags (name) VALUES ('kept')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Init(ctx))

	var n int
	require.NoError(t, db.D.QueryRow("SELECT COUNT(*) FROM tags").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestStorageError(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Init(ctx))

	_, err = db.D.Exec("INSERT INTO tags (name) VALUES ('a')")
	require.NoError(t, err)
	_, err = db.D.Exec("INSERT INTO tags (name) VALUES ('a')")
	require.Error(t, err)

	wrapped := Wrap("insert tag", err)
	var se *StorageError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "insert tag", se.Op)
	assert.ErrorIs(t, wrapped, ErrConstraintViolation)

	other := Wrap("read", errors.New("disk I/O error"))
	assert.False(t, errors.Is(other, ErrConstraintViolation))
	assert.Nil(t, Wrap("noop", nil))
	assert.Same(t, wrapped, Wrap("again", wrapped))
}

func TestTimeStr(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 123456000, time.UTC)
	assert.Equal(t, "2024-03-09T14:05:06.123456Z", ToTimeStr(now))
	assert.True(t, now.Equal(FromTimeStr(ToTimeStr(now))))
	assert.True(t, FromTimeStr("yesterday").IsZero())
}

func TestGetDBFilePath(t *testing.T) {
	tempHome, err := os.MkdirTemp("", "test-home")
	assert.NoError(t, err)
	defer os.RemoveAll(tempHome)

	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CONFIG_HOME", "")

	dbPath, err := GetDBFilePath()
	assert.NoError(t, err)

	expectedPath := filepath.Join(tempHome, ".config", "fftpeg", "fftpeg.db")
	assert.Equal(t, expectedPath, dbPath)
}
