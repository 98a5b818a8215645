package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateIdentity = errors.New("username or email already in use")
	ErrNotFound          = errors.New("record not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// isDuplicateErr recognizes unique-constraint violations. TranslateError is
// enabled on every gorm.Open in this repo; the string checks cover drivers
// that predate translation.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
