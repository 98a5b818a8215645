package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/util"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	var req struct {
		ID      string `json:"id"`
		BookID  string `json:"book_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.BookID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "book_id is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	var book models.Book
	if err := h.DB.WithContext(ctx).First(&book, "id = ?", req.BookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	review := models.Review{
		ID:      req.ID,
		BookID:  req.BookID,
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.DB.WithContext(ctx).Create(&review).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "review creation failed")
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	var review models.Review
	err := h.DB.WithContext(c.Request().Context()).First(&review, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).Model(&models.Review{})
	if bookID := c.QueryParam("book_id"); bookID != "" {
		q = q.Where("book_id = ?", bookID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	var reviews []models.Review
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": reviews,
		"meta": util.Meta(page, limit, total),
	})
}

// DeleteReview allows the author or an admin.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	if review.UserID != user.ID && !user.Role.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "not your review")
	}

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
