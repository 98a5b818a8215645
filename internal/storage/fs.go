package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

// FSStorage writes cover bytes to an uploads directory and records the path
// on the book row.
type FSStorage struct {
	Dir string
	DB  *gorm.DB
}

func NewFSStorage(dir string, db *gorm.DB) (*FSStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FSStorage{Dir: dir, DB: db}, nil
}

func (s *FSStorage) SaveCover(ctx context.Context, bookID string, data []byte) error {
	var book models.Book
	if err := s.DB.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	name := fmt.Sprintf("%s-%s.bin", bookID, uuid.NewString()[:8])
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cover: %w", err)
	}

	old := book.CoverPath
	err := s.DB.WithContext(ctx).Model(&book).
		Updates(map[string]any{"cover_path": path, "cover": nil}).Error
	if err != nil {
		os.Remove(path)
		return err
	}
	if old != nil {
		os.Remove(*old)
	}
	return nil
}

func (s *FSStorage) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if book.CoverPath == nil {
		// fall back to an inline blob written under the db backend
		if len(book.Cover) > 0 {
			return book.Cover, nil
		}
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(*book.CoverPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *FSStorage) DeleteCover(ctx context.Context, bookID string) error {
	var book models.Book
	if err := s.DB.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if book.CoverPath != nil {
		os.Remove(*book.CoverPath)
	}
	return s.DB.WithContext(ctx).Model(&book).
		Updates(map[string]any{"cover_path": nil, "cover": nil}).Error
}
