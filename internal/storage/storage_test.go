package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Book{}))
	return db
}

func seedBook(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Book{ID: id, Title: "t"}).Error)
}

func TestNewPicksBackend(t *testing.T) {
	db := newTestDB(t)

	s, err := storage.New("fs", t.TempDir(), db)
	require.NoError(t, err)
	assert.IsType(t, &storage.FSStorage{}, s)

	s, err = storage.New("db", "", db)
	require.NoError(t, err)
	assert.IsType(t, &storage.DBStorage{}, s)

	_, err = storage.New("s3", "", db)
	assert.Error(t, err)
}

func TestFSStorageRoundTrip(t *testing.T) {
	ctx := t.Context()
	db := newTestDB(t)
	dir := t.TempDir()
	s, err := storage.NewFSStorage(dir, db)
	require.NoError(t, err)

	seedBook(t, db, "b1")
	payload := []byte("cover-bytes")

	require.NoError(t, s.SaveCover(ctx, "b1", payload))

	got, err := s.GetCover(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// The blob lives on disk, not in the row.
	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", "b1").Error)
	require.NotNil(t, book.CoverPath)
	assert.Empty(t, book.Cover)

	// Replacing the cover removes the previous file.
	oldPath := *book.CoverPath
	require.NoError(t, s.SaveCover(ctx, "b1", []byte("v2")))
	_, statErr := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, s.DeleteCover(ctx, "b1"))
	_, err = s.GetCover(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := filepath.Glob(filepath.Join(dir, "b1-*"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFSStorageMissingBook(t *testing.T) {
	ctx := t.Context()
	db := newTestDB(t)
	s, err := storage.NewFSStorage(t.TempDir(), db)
	require.NoError(t, err)

	assert.ErrorIs(t, s.SaveCover(ctx, "nope", []byte("x")), storage.ErrNotFound)
	_, err = s.GetCover(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, s.DeleteCover(ctx, "nope"))
}

func TestDBStorageRoundTrip(t *testing.T) {
	ctx := t.Context()
	db := newTestDB(t)
	s := &storage.DBStorage{DB: db}

	seedBook(t, db, "b1")
	payload := []byte("inline-cover")

	require.NoError(t, s.SaveCover(ctx, "b1", payload))

	got, err := s.GetCover(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, s.DeleteCover(ctx, "b1"))
	_, err = s.GetCover(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.SaveCover(ctx, "nope", payload), storage.ErrNotFound)
}
