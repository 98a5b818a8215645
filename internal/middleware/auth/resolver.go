package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/repo"
	"github.com/MightyHelper/WSD25-Assign02/internal/tokens"
)

const userContextKey = "user"

// Resolver turns a bearer access token into a *models.User. Every failure
// mode of Require (missing header, wrong scheme, bad signature, expiry,
// unknown subject) collapses to a single 401 so callers cannot distinguish
// a forged token from an expired one.
type Resolver struct {
	Repo  *repo.GormRepo
	Codec *tokens.Codec
}

func NewResolver(r *repo.GormRepo, codec *tokens.Codec) *Resolver {
	return &Resolver{Repo: r, Codec: codec}
}

// CurrentUser returns the user set by Require/Optional, or nil.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

func (r *Resolver) resolve(ctx context.Context, header string) *models.User {
	l := logging.FromContext(ctx).With("mw", "auth")

	scheme, credential, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return nil
	}
	claims, err := r.Codec.DecodeAccessToken(strings.TrimSpace(credential))
	if err != nil {
		l.Debug("token rejected", "error", err)
		return nil
	}
	// Subject is the user ID; FindUserByIdentity also tolerates tokens
	// minted against username or email.
	user, err := r.Repo.FindUserByIdentity(ctx, claims.Subject)
	if err != nil {
		l.Debug("subject did not resolve", "error", err)
		return nil
	}
	return user
}

// Require rejects the request with 401 unless a valid bearer token resolves
// to an existing user.
func (r *Resolver) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := r.resolve(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// Optional resolves the caller when possible and continues anonymously
// otherwise. Used by endpoints that branch on "is anyone authenticated"
// without demanding it, such as logout.
func (r *Resolver) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user := r.resolve(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization)); user != nil {
			c.Set(userContextKey, user)
		}
		return next(c)
	}
}

// RequireAdmin builds on Require: identity failures stay 401, while a valid
// non-admin identity gets 403.
func (r *Resolver) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return r.Require(func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.Role.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	})
}
