package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/util"
)

type AuthorHandler struct {
	DB *gorm.DB
}

func (h *AuthorHandler) CreateAuthor(c echo.Context) error {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	author := models.Author{ID: req.ID, Name: req.Name}
	if err := h.DB.WithContext(c.Request().Context()).Create(&author).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "author creation failed")
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHandler) GetAuthor(c echo.Context) error {
	var author models.Author
	err := h.DB.WithContext(c.Request().Context()).First(&author, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) ListAuthors(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).Model(&models.Author{})
	if name := c.QueryParam("name"); name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	var authors []models.Author
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&authors).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": authors,
		"meta": util.Meta(page, limit, total),
	})
}
