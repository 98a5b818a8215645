package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

// DBStorage stores cover bytes inline in the books table.
type DBStorage struct {
	DB *gorm.DB
}

func (s *DBStorage) SaveCover(ctx context.Context, bookID string, data []byte) error {
	result := s.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{"cover": data, "cover_path": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DBStorage) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(book.Cover) == 0 {
		return nil, ErrNotFound
	}
	return book.Cover, nil
}

func (s *DBStorage) DeleteCover(ctx context.Context, bookID string) error {
	return s.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{"cover": nil, "cover_path": nil}).Error
}
