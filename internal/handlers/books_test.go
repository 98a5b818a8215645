package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBook(env *testEnv, admin, title string) map[string]any {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/v1/books", admin, map[string]any{"title": title})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(env.T, rec)
}

func TestBookCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	book := createBook(env, admin, "The Dispossessed")
	id := book["id"].(string)

	rec := env.do(http.MethodGet, "/api/v1/books/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Dispossessed", decodeBody(t, rec)["title"])

	rec = env.do(http.MethodGet, "/api/v1/books/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/books/"+id, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/books/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookCacheReadThrough(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	book := createBook(env, admin, "Cached")
	id := book["id"].(string)

	// First GET fills the cache, second is served from it.
	rec := env.do(http.MethodGet, "/api/v1/books/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Redis.Exists("book:"+id))

	rec = env.do(http.MethodGet, "/api/v1/books/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cached", decodeBody(t, rec)["title"])

	// Delete invalidates the cached entry.
	rec = env.do(http.MethodDelete, "/api/v1/books/"+id, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Redis.Exists("book:"+id))
}

func TestListBooksFilterAndPagination(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	for _, title := range []string{"Go in Action", "Go Web Programming", "SICP"} {
		createBook(env, admin, title)
	}

	rec := env.do(http.MethodGet, "/api/v1/books?title=Go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)

	rec = env.do(http.MethodGet, "/api/v1/books?page=2&size=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["total_pages"])
}

func TestCoverUploadRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	book := createBook(env, admin, "Covered")
	id := book["id"].(string)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	rec := env.doRaw(http.MethodPut, "/api/v1/books/"+id+"/cover", admin, "application/octet-stream", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doRaw(http.MethodGet, "/api/v1/books/"+id+"/cover", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())

	rec = env.doRaw(http.MethodPut, "/api/v1/books/missing/cover", admin, "application/octet-stream", payload)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doRaw(http.MethodGet, "/api/v1/books/"+id+"/cover", admin, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLikeBookUpsert(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()
	pair := env.register("harry", "harry@x.com", "pw")
	token := pair["access_token"].(string)

	book := createBook(env, admin, "Likeable")
	id := book["id"].(string)

	rec := env.do(http.MethodPatch, "/api/v1/books/"+id+"/like?wishlist=true", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	like := decodeBody(t, rec)
	assert.Equal(t, true, like["wishlist"])
	assert.Equal(t, false, like["favourite"])

	rec = env.do(http.MethodPatch, "/api/v1/books/"+id+"/like?favourite=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	like = decodeBody(t, rec)
	assert.Equal(t, true, like["wishlist"])
	assert.Equal(t, true, like["favourite"])

	rec = env.do(http.MethodGet, "/api/v1/users/me/likes?wishlist=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &likes))
	assert.Len(t, likes, 1)

	rec = env.do(http.MethodPatch, "/api/v1/books/missing/like?wishlist=true", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
