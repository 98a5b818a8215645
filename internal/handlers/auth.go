package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/mykafka"
	"github.com/MightyHelper/WSD25-Assign02/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
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

	user, pair, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateIdentity) {
			return echo.NewHTTPError(http.StatusBadRequest, "username or email already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, pair)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken),
			errors.Is(err, service.ErrRefreshTokenExpired),
			errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
		}
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout runs behind the Optional resolver: a refresh token in the body
// revokes that token; otherwise an authenticated caller revokes all of
// their tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// body is optional here
	_ = c.Bind(&req)

	err := h.Svc.Logout(ctx, req.RefreshToken, authmw.CurrentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrNoRevocationTarget) {
			return echo.NewHTTPError(http.StatusBadRequest, "provide a refresh token or authenticate")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
