package models

import (
	"time"
)

// Role gates access to privileged mutation endpoints.
type Role int

const (
	RoleRegular Role = 0
	RoleAdmin   Role = 1
)

func (r Role) IsAdmin() bool { return r == RoleAdmin }

type User struct {
	ID            string  `gorm:"primaryKey;size:36"     json:"id"`
	Username      string  `gorm:"unique;not null"        json:"username"`
	Email         string  `gorm:"unique;not null"        json:"email"`
	PasswordHash  string  `gorm:"not null"               json:"-"`
	Role          Role    `gorm:"not null;default:0"     json:"role"`
	ActiveOrderID *string `gorm:"size:36"                json:"active_order_id,omitempty"`
}

// RefreshToken is single-use per rotation: each successful refresh overwrites
// Token and ExpiresAt in place, which invalidates the previous string.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	Token     string    `gorm:"unique;not null"        json:"token"`
	UserID    string    `gorm:"index;not null;size:36" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"               json:"expires_at"`
}

type Author struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"not null"           json:"name"`
}

type Book struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	AuthorID    *string `gorm:"size:36;index"      json:"author_id,omitempty"`
	ISBN        *string `gorm:"unique"             json:"isbn,omitempty"`
	Title       string  `gorm:"not null"           json:"title"`
	Description string  `json:"description,omitempty"`
	Cover       []byte  `json:"-"`
	CoverPath   *string `json:"-"`
}

type Review struct {
	ID      string `gorm:"primaryKey;size:36"     json:"id"`
	BookID  string `gorm:"index;not null;size:36" json:"book_id"`
	UserID  string `gorm:"index;not null;size:36" json:"user_id"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type Comment struct {
	ID       string `gorm:"primaryKey;size:36"     json:"id"`
	ReviewID string `gorm:"index;not null;size:36" json:"review_id"`
	UserID   string `gorm:"index;not null;size:36" json:"user_id"`
	Content  string `json:"content,omitempty"`
}

type CommentLike struct {
	CommentID string `gorm:"primaryKey;size:36" json:"comment_id"`
	UserID    string `gorm:"primaryKey;size:36" json:"user_id"`
}

type BookLike struct {
	BookID    string `gorm:"primaryKey;size:36" json:"book_id"`
	UserID    string `gorm:"primaryKey;size:36" json:"user_id"`
	Wishlist  bool   `gorm:"default:false"      json:"wishlist"`
	Favourite bool   `gorm:"default:false"      json:"favourite"`
}

type Order struct {
	ID     string `gorm:"primaryKey;size:36"     json:"id"`
	UserID string `gorm:"index;not null;size:36" json:"user_id"`
	Paid   bool   `gorm:"default:false"          json:"paid"`
}

type OrderItem struct {
	ID       string `gorm:"primaryKey;size:36"     json:"id"`
	OrderID  string `gorm:"index;not null;size:36" json:"order_id"`
	BookID   string `gorm:"not null;size:36"       json:"book_id"`
	Quantity int    `gorm:"not null;default:1"     json:"quantity"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Author{}, &Book{}, &Review{},
		&Comment{}, &CommentLike{}, &BookLike{}, &Order{}, &OrderItem{},
	}
}
