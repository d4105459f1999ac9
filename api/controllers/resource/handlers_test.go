package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-admin/internal/categories"
	resourcesvc "github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/storage/storagetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRouter(t *testing.T) http.Handler {
	t.Helper()
	files := storagetest.NewMemoryStore()
	svc, err := categories.NewService(resourcesvc.Deps{DB: dbtest.Open(t), Files: files})
	require.NoError(t, err)
	h := New[models.Category, categories.CreateInput, categories.UpdateInput](svc, categories.Present(files), nil)

	r := chi.NewRouter()
	r.Get("/trash", h.Trash)
	r.Get("/", h.Index)
	r.Post("/", h.Store)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Destroy)
	r.Post("/{id}/restore", h.Restore)
	r.Delete("/{id}/force-delete", h.ForceDelete)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, target, err)
	}
	return rec.Code, out
}

func TestLifecycleOverHTTP(t *testing.T) {
	h := categoryRouter(t)

	code, body := do(t, h, http.MethodPost, "/", `{"name":"Shoes","image":" category/a.png "}`)
	require.Equal(t, http.StatusCreated, code, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, "http://files.test/storage/category/a.png", data["image_url"])

	code, body = do(t, h, http.MethodGet, "/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Shoes", body["data"].(map[string]any)["name"])

	code, body = do(t, h, http.MethodPut, "/1", `{"is_active":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["data"].(map[string]any)["is_active"])
	assert.Equal(t, "Shoes", body["data"].(map[string]any)["name"])

	code, body = do(t, h, http.MethodDelete, "/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category deleted", body["message"])

	code, _ = do(t, h, http.MethodGet, "/1", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = do(t, h, http.MethodGet, "/trash", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body = do(t, h, http.MethodPost, "/1/restore", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category restored", body["message"])

	code, body = do(t, h, http.MethodPost, "/1/restore", "")
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found in trash", body["error"].(map[string]any)["message"])

	code, body = do(t, h, http.MethodDelete, "/1/force-delete", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category permanently deleted", body["message"])

	code, _ = do(t, h, http.MethodDelete, "/1/force-delete", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestIndexPagesSearchesAndFilters(t *testing.T) {
	h := categoryRouter(t)
	for _, body := range []string{`{"name":"Red hats"}`, `{"name":"Blue hats"}`, `{"name":"Shoes","is_active":false}`} {
		code, _ := do(t, h, http.MethodPost, "/", body)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := do(t, h, http.MethodGet, "/?per_page=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 2)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["current_page"])
	assert.EqualValues(t, 2, meta["last_page"])
	assert.EqualValues(t, 3, meta["total"])

	_, body = do(t, h, http.MethodGet, "/?keyword=HATS", "")
	assert.Len(t, body["data"], 2)

	_, body = do(t, h, http.MethodGet, "/?is_active=false", "")
	require.Len(t, body["data"], 1)
	assert.Equal(t, "Shoes", body["data"].([]any)[0].(map[string]any)["name"])

	code, body = do(t, h, http.MethodGet, "/?is_active=maybe", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"].(map[string]any)["details"], "is_active")
}

func TestValidationAndIDHandling(t *testing.T) {
	h := categoryRouter(t)

	code, body := do(t, h, http.MethodPost, "/", `{"description":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "is required", details["name"])

	code, body = do(t, h, http.MethodGet, "/abc", "")
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", body["error"].(map[string]any)["message"])

	code, _ = do(t, h, http.MethodPut, "/999", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
}
