package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/duely/internal/store/jsonstore"
	"github.com/idilsaglam/duely/internal/todo"
)

func newTestServer(t *testing.T) (*http.ServeMux, *jsonstore.Store) {
	t.Helper()
	store := jsonstore.New(filepath.Join(t.TempDir(), "todos.json"))
	renderer, err := NewRenderer()
	require.NoError(t, err)
	h := NewHandler(store, renderer, log.New(io.Discard))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, store
}

func postForm(t *testing.T, mux *http.ServeMux, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestIndexEmpty(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := get(t, mux, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No items")
	assert.Contains(t, rec.Body.String(), "Total 0")
}

func TestAddRedirectsWithFlash(t *testing.T) {
	mux, store := newTestServer(t)

	rec := postForm(t, mux, "/add", url.Values{
		"title": {"Buy milk"},
		"due":   {"2025-09-01"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	assert.Contains(t, loc.Query().Get("flash"), "Added #1")
	assert.Equal(t, "success", loc.Query().Get("kind"))

	items, err := store.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)
	require.NotNil(t, items[0].Due)
	assert.Equal(t, "2025-09-01", items[0].Due.String())
}

func TestAddValidationFlash(t *testing.T) {
	mux, store := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"empty title", url.Values{"title": {"  "}}},
		{"bad due", url.Values{"title": {"x"}, "due": {"whenever"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, mux, "/add", tt.form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "error", loc.Query().Get("kind"))
		})
	}

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items, "rejected input must not be written")
}

func TestIndexRendersItemsAndFlash(t *testing.T) {
	mux, store := newTestServer(t)
	_, err := todo.Add(store, "Buy milk", "2025-09-01")
	require.NoError(t, err)

	rec := get(t, mux, "/?filter=all&flash=hello&kind=info")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "2025-09-01")
	assert.Contains(t, body, "hello")
	assert.Contains(t, body, "Total 1")
}

func TestIndexEscapesTitles(t *testing.T) {
	mux, store := newTestServer(t)
	_, err := todo.Add(store, "<script>alert(1)</script>", "")
	require.NoError(t, err)

	rec := get(t, mux, "/")
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestIndexFilters(t *testing.T) {
	mux, store := newTestServer(t)
	todo.Add(store, "pending item", "")
	b, _ := todo.Add(store, "done item", "")
	_, err := todo.Complete(store, b.ID)
	require.NoError(t, err)

	body := get(t, mux, "/?filter=pending").Body.String()
	assert.Contains(t, body, "pending item")
	assert.NotContains(t, body, "done item")

	body = get(t, mux, "/?filter=done").Body.String()
	assert.NotContains(t, body, "pending item")
	assert.Contains(t, body, "done item")

	body = get(t, mux, "/?filter=all").Body.String()
	assert.Contains(t, body, "pending item")
	assert.Contains(t, body, "done item")
}

func TestTogglePRG(t *testing.T) {
	mux, store := newTestServer(t)
	it, _ := todo.Add(store, "a", "")

	rec := postForm(t, mux, "/toggle/1?filter=all", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?filter=all", rec.Header().Get("Location"))

	got, err := todo.Get(store, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)

	// Toggling again flips back.
	postForm(t, mux, "/toggle/1", nil)
	got, _ = todo.Get(store, it.ID)
	assert.False(t, got.Done)

	// Forced directions are idempotent.
	postForm(t, mux, "/toggle/1?act=done", nil)
	postForm(t, mux, "/toggle/1?act=done", nil)
	got, _ = todo.Get(store, it.ID)
	assert.True(t, got.Done)

	postForm(t, mux, "/toggle/1?act=undone", nil)
	got, _ = todo.Get(store, it.ID)
	assert.False(t, got.Done)
}

func TestToggleUnknownID(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := postForm(t, mux, "/toggle/99", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, _ := url.Parse(rec.Header().Get("Location"))
	assert.Equal(t, "error", loc.Query().Get("kind"))
}

func TestEditPageAndSubmit(t *testing.T) {
	mux, store := newTestServer(t)
	it, _ := todo.Add(store, "Buy milk", "2025-09-01")

	rec := get(t, mux, "/edit/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Buy milk")
	assert.Contains(t, rec.Body.String(), "2025-09-01")

	rec = postForm(t, mux, "/edit/1", url.Values{
		"title": {"Buy oat milk"},
		"due":   {"2025-09-03"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := todo.Get(store, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "2025-09-03", got.Due.String())

	// clear_due drops the date even when the input still carries one.
	rec = postForm(t, mux, "/edit/1", url.Values{
		"title":     {"Buy oat milk"},
		"due":       {"2025-09-03"},
		"clear_due": {"on"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, _ = todo.Get(store, it.ID)
	assert.Nil(t, got.Due)
}

func TestEditUnknownID(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := get(t, mux, "/edit/42")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, _ := url.Parse(rec.Header().Get("Location"))
	assert.Equal(t, "error", loc.Query().Get("kind"))
}

func TestDeleteAndClear(t *testing.T) {
	mux, store := newTestServer(t)
	todo.Add(store, "a", "")
	b, _ := todo.Add(store, "b", "")
	_, err := todo.Complete(store, b.ID)
	require.NoError(t, err)

	rec := postForm(t, mux, "/delete/1", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	items, _ := store.Load()
	require.Len(t, items, 1)

	rec = postForm(t, mux, "/clear", url.Values{"mode": {"done"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	items, _ = store.Load()
	assert.Empty(t, items)
}

func TestCorruptStoreRendersError(t *testing.T) {
	mux, store := newTestServer(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0o644))

	rec := get(t, mux, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	mux, _ := newTestServer(t)
	wrapped := RequestLogger(log.New(io.Discard), mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
