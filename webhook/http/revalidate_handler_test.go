package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

type fakeProvider struct {
	mu     sync.Mutex
	calls  int
	forced []bool
	posts  []*domain.Post
	err    error
}

func (f *fakeProvider) GetPosts(_ context.Context, forceFresh bool) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.forced = append(f.forced, forceFresh)
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return f.err
}

func setupRouter(h *RevalidateHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doRevalidate(router *gin.Engine, target string, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRevalidate_MissingServerSecret(t *testing.T) {
	provider := &fakeProvider{}
	handler := NewRevalidateHandler("", provider, &fakeInvalidator{})
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", "", map[string]string{TokenHeader: "whatever"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, provider.calls)
}

func TestHandleRevalidate_InvalidToken(t *testing.T) {
	provider := &fakeProvider{}
	handler := NewRevalidateHandler("s3cret", provider, &fakeInvalidator{})
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", "", map[string]string{TokenHeader: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, provider.calls)
}

func TestHandleRevalidate_QuerySecretFallback(t *testing.T) {
	provider := &fakeProvider{posts: []*domain.Post{}}
	invalidator := &fakeInvalidator{}
	handler := NewRevalidateHandler("s3cret", provider, invalidator)
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate?secret=s3cret", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/"}, invalidator.paths)
}

func TestHandleRevalidate_AllPaths(t *testing.T) {
	provider := &fakeProvider{posts: []*domain.Post{
		{ID: "p1", Slug: "first-post"},
		{ID: "p2", Slug: "second-post"},
		{ID: "p3", Slug: "first-post"}, // duplicate slug must not double up
		{ID: "p4", Slug: ""},
	}}
	invalidator := &fakeInvalidator{}
	handler := NewRevalidateHandler("s3cret", provider, invalidator)
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", "", map[string]string{TokenHeader: "s3cret"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, provider.calls)
	assert.True(t, provider.forced[0], "no-path revalidation must force a fresh ingestion")
	assert.Equal(t, []string{"/", "/first-post", "/second-post"}, invalidator.paths)

	assert.Contains(t, w.Body.String(), `"revalidated":true`)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestHandleRevalidate_ExplicitPath(t *testing.T) {
	provider := &fakeProvider{}
	invalidator := &fakeInvalidator{}
	handler := NewRevalidateHandler("s3cret", provider, invalidator)
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", `{"path":"about"}`, map[string]string{
		TokenHeader:    "s3cret",
		"Content-Type": "application/json",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, provider.calls, "explicit path must not trigger an ingestion")
	assert.Equal(t, []string{"/about"}, invalidator.paths)
}

func TestHandleRevalidate_ExplicitPathFromQuery(t *testing.T) {
	provider := &fakeProvider{}
	invalidator := &fakeInvalidator{}
	handler := NewRevalidateHandler("s3cret", provider, invalidator)
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate?path=/contact", "", map[string]string{TokenHeader: "s3cret"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/contact"}, invalidator.paths)
}

func TestHandleRevalidate_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	handler := NewRevalidateHandler("s3cret", provider, &fakeInvalidator{})
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", "", map[string]string{TokenHeader: "s3cret"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleRevalidate_InvalidatorFailure(t *testing.T) {
	provider := &fakeProvider{posts: []*domain.Post{{ID: "p1", Slug: "a"}}}
	invalidator := &fakeInvalidator{err: errors.New("purge failed")}
	handler := NewRevalidateHandler("s3cret", provider, invalidator)
	router := setupRouter(handler)

	w := doRevalidate(router, "/api/revalidate", "", map[string]string{TokenHeader: "s3cret"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
