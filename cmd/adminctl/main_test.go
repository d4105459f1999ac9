package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	calls []string
	put   map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	switch {
	case r.URL.Path == "/api/auth/login":
		_ = enc.Encode(map[string]any{"data": map[string]any{
			"access_token": "tok", "token_type": "Bearer",
			"user": map[string]any{"id": 1, "name": "Ada"},
		}})
	case r.Method == http.MethodGet && r.URL.Path == "/api/admin/banners":
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = enc.Encode(map[string]any{"error": map[string]any{"code": "UNAUTHORIZED", "message": "missing credentials"}})
			return
		}
		_ = enc.Encode(map[string]any{
			"data": []map[string]any{{"id": 4, "title": "Sale", "is_active": true,
				"images": []map[string]any{{"image_url": "https://cdn.example.com/a.png"}}}},
			"meta": map[string]any{"current_page": 1, "last_page": 1, "per_page": 10, "total": 1},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/admin/banners/4":
		_ = enc.Encode(map[string]any{"data": map[string]any{"id": 4, "title": "Sale", "link": "https://shop.example.com", "is_active": true}})
	case r.Method == http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&f.put)
		_ = enc.Encode(map[string]any{"data": map[string]any{"id": 4}})
	case r.Method == http.MethodDelete:
		_ = enc.Encode(map[string]any{"message": "Banner deleted"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func runCLI(t *testing.T, api *httptest.Server, token, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"-api", api.URL, "-token-file", token}, args...)
	err := run(context.Background(), full, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestLoginThenListBanners(t *testing.T) {
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	token := filepath.Join(t.TempDir(), "token")

	_, err := runCLI(t, srv, token, "", "banners", "list")
	require.Error(t, err)
	assert.Equal(t, "missing credentials (run adminctl login)", describe(err))

	out, err := runCLI(t, srv, token, "", "login", "-email", "ada@example.com", "-password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ada")

	out, err = runCLI(t, srv, token, "", "banners", "list", "-page", "1", "-per-page", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Sale")
	assert.Contains(t, out, "https://cdn.example.com/a.png")
	assert.Contains(t, out, "page 1 of 1 (1 total)")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	token := filepath.Join(t.TempDir(), "token")

	out, err := runCLI(t, srv, token, "n\n", "banners", "delete", "-id", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.Empty(t, fake.calls)

	out, err = runCLI(t, srv, token, "y\n", "banners", "delete", "-id", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Banner deleted")

	_, err = runCLI(t, srv, token, "", "banners", "force", "-id", "4", "-yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"DELETE /api/admin/banners/4", "DELETE /api/admin/banners/4/force"}, fake.calls)
}

func TestEditKeepsUnsetFields(t *testing.T) {
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	out, err := runCLI(t, srv, filepath.Join(t.TempDir(), "token"), "", "banners", "edit", "-id", "4", "-title", "New")
	require.NoError(t, err)
	assert.Contains(t, out, "Banner 4 updated")
	assert.Equal(t, "New", fake.put["title"])
	assert.Equal(t, "https://shop.example.com", fake.put["link"])
	assert.Equal(t, true, fake.put["is_active"])
	_, hasImages := fake.put["images"]
	assert.False(t, hasImages)
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-token-file", filepath.Join(t.TempDir(), "t"), "nope"}, strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "usage: adminctl")
}
