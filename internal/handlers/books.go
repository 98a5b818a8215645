package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/cache"
	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/mykafka"
	"github.com/MightyHelper/WSD25-Assign02/internal/storage"
	"github.com/MightyHelper/WSD25-Assign02/internal/util"
)

const maxCoverBytes = 10 << 20

type BookHandler struct {
	DB       *gorm.DB
	Cache    *cache.BookCache
	Storage  storage.BlobStorage
	Producer *mykafka.Producer
}

func (h *BookHandler) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicBookEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *BookHandler) CreateBook(c echo.Context) error {
	var req struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		AuthorID    *string `json:"author_id"`
		ISBN        *string `json:"isbn"`
		Description string  `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	book := models.Book{
		ID:          req.ID,
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		ISBN:        req.ISBN,
		Description: req.Description,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&book).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "book creation failed")
	}

	h.publish(c, book.ID, map[string]any{"type": "book_created", "book_id": book.ID, "title": book.Title})
	return c.JSON(http.StatusCreated, book)
}

// GetBook reads through the Redis cache (60s TTL). Cache errors fall back
// to the database.
func (h *BookHandler) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if h.Cache != nil {
		if book := h.Cache.GetBook(ctx, id); book != nil {
			return c.JSON(http.StatusOK, book)
		}
	}

	var book models.Book
	if err := h.DB.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	if h.Cache != nil {
		h.Cache.SetBook(ctx, &book)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) ListBooks(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).Model(&models.Book{})
	if title := c.QueryParam("title"); title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	if authorID := c.QueryParam("author_id"); authorID != "" {
		q = q.Where("author_id = ?", authorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	var books []models.Book
	if err := q.Order("title ASC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": books,
		"meta": util.Meta(page, limit, total),
	})
}

func (h *BookHandler) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var book models.Book
	if err := h.DB.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	if h.Storage != nil {
		if err := h.Storage.DeleteCover(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("cover cleanup failed", "book_id", id, "error", err)
		}
	}
	if err := h.DB.WithContext(ctx).Delete(&book).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	if h.Cache != nil {
		h.Cache.InvalidateBook(ctx, id)
	}

	h.publish(c, id, map[string]any{"type": "book_deleted", "book_id": id})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// LikeBook upserts the caller's wishlist/favourite flags: 201 on first
// like, 200 on update.
func (h *BookHandler) LikeBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)
	bookID := c.Param("id")

	var book models.Book
	if err := h.DB.WithContext(ctx).First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	wishlist := c.QueryParam("wishlist")
	favourite := c.QueryParam("favourite")

	var like models.BookLike
	err := h.DB.WithContext(ctx).
		Where("book_id = ? AND user_id = ?", bookID, user.ID).
		First(&like).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	if created {
		like = models.BookLike{BookID: bookID, UserID: user.ID}
	}
	if wishlist != "" {
		like.Wishlist = wishlist == "true"
	}
	if favourite != "" {
		like.Favourite = favourite == "true"
	}

	if err := h.DB.WithContext(ctx).Save(&like).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "like failed")
	}
	if created {
		return c.JSON(http.StatusCreated, like)
	}
	return c.JSON(http.StatusOK, like)
}

func (h *BookHandler) UploadCover(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCoverBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}
	if len(data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty body")
	}

	if err := h.Storage.SaveCover(ctx, id, data); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cover upload failed")
	}
	if h.Cache != nil {
		h.Cache.InvalidateBook(ctx, id)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "book_id": id})
}

func (h *BookHandler) GetCover(c echo.Context) error {
	data, err := h.Storage.GetCover(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cover not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cover lookup failed")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}
