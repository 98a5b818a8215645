package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/cache"
	"github.com/MightyHelper/WSD25-Assign02/internal/handlers"
	"github.com/MightyHelper/WSD25-Assign02/internal/hash"
	"github.com/MightyHelper/WSD25-Assign02/internal/metrics"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/repo"
	"github.com/MightyHelper/WSD25-Assign02/internal/service"
	"github.com/MightyHelper/WSD25-Assign02/internal/storage"
	"github.com/MightyHelper/WSD25-Assign02/internal/tokens"
	httpserver "github.com/MightyHelper/WSD25-Assign02/internal/transport/http"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Svc   *service.AuthService
	Codec *tokens.Codec
	Redis *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	m := metrics.New()
	gormRepo := repo.New(db)
	codec := tokens.NewCodec([]byte("test-jwt-secret"))
	hasher := hash.New("test-pepper")
	svc := service.NewAuthService(gormRepo, codec, hasher)
	resolver := authmw.NewResolver(gormRepo, codec)

	fsStorage, err := storage.NewFSStorage(t.TempDir(), db)
	require.NoError(t, err)

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Resolver: resolver,
		Metrics:  m,
		Auth:     &handlers.AuthHandler{Svc: svc},
		Users:    &handlers.UserHandler{DB: db, Repo: gormRepo, Svc: svc},
		Authors:  &handlers.AuthorHandler{DB: db},
		Books: &handlers.BookHandler{
			DB:      db,
			Cache:   &cache.BookCache{Client: redisClient, Metrics: m},
			Storage: fsStorage,
		},
		Reviews:  &handlers.ReviewHandler{DB: db},
		Comments: &handlers.CommentHandler{DB: db},
		Orders:   &handlers.OrderHandler{DB: db},
	})

	return &testEnv{T: t, E: e, DB: db, Svc: svc, Codec: codec, Redis: mr}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doRaw(method, path, token, contentType string, body []byte) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates a user over HTTP and returns the token pair.
func (env *testEnv) register(username, email, password string) map[string]any {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(env.T, rec)
}

// adminToken seeds an admin directly and returns a valid access token.
func (env *testEnv) adminToken() string {
	env.T.Helper()
	admin, err := env.Svc.CreateUser(env.T.Context(), "root", "root@x.com", "rootpw", models.RoleAdmin)
	require.NoError(env.T, err)
	token, err := env.Codec.CreateAccessToken(admin.ID, admin.Role)
	require.NoError(env.T, err)
	return token
}
