package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MightyHelper/WSD25-Assign02/internal/hash"
	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/repo"
	"github.com/MightyHelper/WSD25-Assign02/internal/tokens"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrDuplicateIdentity   = errors.New("username or email already in use")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoRevocationTarget  = errors.New("provide a refresh token or authenticate")
)

type AuthService struct {
	Repo       *repo.GormRepo
	Codec      *tokens.Codec
	Hasher     *hash.Hasher
	RefreshTTL time.Duration
}

func NewAuthService(r *repo.GormRepo, codec *tokens.Codec, hasher *hash.Hasher) *AuthService {
	return &AuthService{
		Repo:       r,
		Codec:      codec,
		Hasher:     hasher,
		RefreshTTL: tokens.DefaultRefreshTTL,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.Codec.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.CreateRefreshToken(ctx, user.ID, refresh, time.Now().UTC().Add(s.RefreshTTL)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Register creates a user with RoleRegular regardless of caller input;
// self-registration can never grant an elevated role.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleRegular,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateIdentity) {
			l.Warn("register failed", "reason", "duplicate identity", "username", username)
			return nil, nil, ErrDuplicateIdentity
		}
		l.Error("register failed", "error", err)
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("register failed", "reason", "cannot issue tokens", "error", err)
		return nil, nil, err
	}
	l.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

// CreateUser is the administrative creation path and the only one that may
// set a non-default role.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_user")

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateIdentity) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	l.Info("user created", "user_id", user.ID, "role", int(role))
	return user, nil
}

// Login resolves the user by ID, username or email. Unknown identity and
// wrong password collapse to the same error to avoid username enumeration.
func (s *AuthService) Login(ctx context.Context, identity, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login failed", "reason", "unknown identity")
			return nil, nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, nil, err
	}
	if !s.Hasher.Check(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("login failed", "reason", "cannot issue tokens", "error", err)
		return nil, nil, err
	}
	l.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates the presented refresh token: the stored record keeps its
// identifier and owner but gets a new string and expiry, so the old string
// has no reuse window. The new access token carries the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	record, err := s.Repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh failed", "reason", "unknown token")
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if time.Now().UTC().After(record.ExpiresAt) {
		if err := s.Repo.DeleteRefreshToken(ctx, record); err != nil {
			l.Error("expired token cleanup failed", "error", err)
		}
		l.Warn("refresh failed", "reason", "token expired", "user_id", record.UserID)
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.Repo.GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh failed", "reason", "owner deleted", "user_id", record.UserID)
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newRefresh, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, record, newRefresh, time.Now().UTC().Add(s.RefreshTTL)); err != nil {
		return nil, err
	}

	access, err := s.Codec.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	l.Info("token refreshed", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh, TokenType: "bearer"}, nil
}

// Logout revokes refresh tokens. An explicit token in the body wins over the
// authenticated session; revoking an unknown token still succeeds so the
// response leaks nothing about token validity. With no body token, a valid
// session revokes every token the user holds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, user *models.User) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if refreshToken != "" {
		if err := s.Repo.DeleteRefreshTokenByString(ctx, refreshToken); err != nil {
			l.Error("logout failed", "error", err)
			return err
		}
		l.Info("refresh token revoked")
		return nil
	}

	if user != nil {
		count, err := s.Repo.DeleteAllRefreshTokens(ctx, user.ID)
		if err != nil {
			l.Error("logout failed", "user_id", user.ID, "error", err)
			return err
		}
		l.Info("all sessions revoked", "user_id", user.ID, "revoked", count)
		return nil
	}

	return ErrNoRevocationTarget
}
