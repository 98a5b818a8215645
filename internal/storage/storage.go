package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("cover not found")

// BlobStorage abstracts where book cover bytes live: on the filesystem
// (FSStorage) or inline in the books table (DBStorage).
type BlobStorage interface {
	SaveCover(ctx context.Context, bookID string, data []byte) error
	GetCover(ctx context.Context, bookID string) ([]byte, error)
	DeleteCover(ctx context.Context, bookID string) error
}

// New selects the backend by kind: "fs" or "db".
func New(kind, uploadDir string, db *gorm.DB) (BlobStorage, error) {
	switch kind {
	case "fs":
		return NewFSStorage(uploadDir, db)
	case "db":
		return &DBStorage{DB: db}, nil
	default:
		return nil, errors.New("unknown storage kind: " + kind)
	}
}
