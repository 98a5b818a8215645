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

type CommentHandler struct {
	DB *gorm.DB
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)
	reviewID := c.Param("id")

	var req struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	comment := models.Comment{
		ID:       req.ID,
		ReviewID: reviewID,
		UserID:   user.ID,
		Content:  req.Content,
	}
	if err := h.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "comment creation failed")
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListComments(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).
		Model(&models.Comment{}).
		Where("review_id = ?", c.Param("id"))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	var comments []models.Comment
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": comments,
		"meta": util.Meta(page, limit, total),
	})
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	var comment models.Comment
	if err := h.DB.WithContext(ctx).First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	if comment.UserID != user.ID && !user.Role.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "not your comment")
	}

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *CommentHandler) LikeComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)
	commentID := c.Param("id")

	var comment models.Comment
	if err := h.DB.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	like := models.CommentLike{CommentID: commentID, UserID: user.ID}
	err := h.DB.WithContext(ctx).Create(&like).Error
	if err != nil {
		var existing models.CommentLike
		checkErr := h.DB.WithContext(ctx).
			Where("comment_id = ? AND user_id = ?", commentID, user.ID).
			First(&existing).Error
		if checkErr == nil {
			// already liked, idempotent
			return c.JSON(http.StatusOK, existing)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "like failed")
	}
	return c.JSON(http.StatusCreated, like)
}

func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	user := authmw.CurrentUser(c)
	err := h.DB.WithContext(c.Request().Context()).
		Where("comment_id = ? AND user_id = ?", c.Param("id"), user.ID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "unlike failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
