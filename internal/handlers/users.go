package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/repo"
	"github.com/MightyHelper/WSD25-Assign02/internal/service"
	"github.com/MightyHelper/WSD25-Assign02/internal/util"
)

type UserHandler struct {
	DB   *gorm.DB
	Repo *repo.GormRepo
	Svc  *service.AuthService
}

// CreateUser is the admin-only creation path; unlike self-registration it
// may set the role.
func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if !validEmail(req.Email) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "malformed email")
	}
	if req.Role != models.RoleRegular && req.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.Svc.CreateUser(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateIdentity) {
			return echo.NewHTTPError(http.StatusBadRequest, "username or email already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "user creation failed")
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetMe(c echo.Context) error {
	return c.JSON(http.StatusOK, authmw.CurrentUser(c))
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.Repo.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateRole is the sole role-mutation path, admin gated at the router.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Role != models.RoleRegular && req.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.Repo.UpdateUserRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "role update failed")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetMyLikes(c echo.Context) error {
	user := authmw.CurrentUser(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).
		Model(&models.BookLike{}).
		Where("user_id = ?", user.ID)
	if v := c.QueryParam("wishlist"); v != "" {
		q = q.Where("wishlist = ?", v == "true")
	}
	if v := c.QueryParam("favourite"); v != "" {
		q = q.Where("favourite = ?", v == "true")
	}

	var likes []models.BookLike
	if err := q.Offset(offset).Limit(limit).Find(&likes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, likes)
}
