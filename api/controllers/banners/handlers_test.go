package banners

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-admin/api/middleware"
	bannersvc "github.com/angelmondragon/storefront-admin/internal/banners"
	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/storage/storagetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fixture struct {
	handler http.Handler
	conn    *gorm.DB
	files   *storagetest.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	files := storagetest.NewMemoryStore()
	svc, err := bannersvc.NewService(resource.Deps{DB: client, Files: files})
	require.NoError(t, err)
	h := New(svc, files, 1<<20, nil)

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/", h.Store)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}/force", h.ForceDelete)
	return fixture{handler: middleware.MethodOverride(r), conn: client.DB(), files: files}
}

type part struct {
	name, value string
	file        []byte
}

func multipartRequest(t *testing.T, method, target string, parts []part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.file != nil {
			fw, err := mw.CreateFormFile(p.name, "upload.png")
			require.NoError(t, err)
			_, err = fw.Write(p.file)
			require.NoError(t, err)
			continue
		}
		require.NoError(t, mw.WriteField(p.name, p.value))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(t *testing.T, h http.Handler, req *http.Request) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec.Code, out
}

func images(body map[string]any) []any {
	return body["data"].(map[string]any)["images"].([]any)
}

func TestMultipartStoreMixesFileAndURL(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, multipartRequest(t, http.MethodPost, "/", []part{
		{name: "title", value: "Summer"},
		{name: "is_active", value: "0"},
		{name: "images[0][file]", file: pngBytes},
		{name: "images[1][url]", value: "https://cdn.test/b.jpg"},
		{name: "images[1][is_active]", value: "false"},
		{name: "images[2][url]", value: ""},
	}))
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, false, body["data"].(map[string]any)["is_active"])

	imgs := images(body)
	require.Len(t, imgs, 2)
	stored := imgs[0].(map[string]any)
	assert.True(t, strings.HasPrefix(stored["image"].(string), "banner/"))
	assert.Equal(t, "http://files.test/storage/"+stored["image"].(string), stored["image_url"])
	external := imgs[1].(map[string]any)
	assert.Equal(t, "https://cdn.test/b.jpg", external["image_url"])
	assert.Equal(t, false, external["is_active"])
	assert.Len(t, f.files.Paths(), 1)
}

func TestStoreWithoutImagesIsRejected(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, multipartRequest(t, http.MethodPost, "/", []part{
		{name: "title", value: "Empty"},
		{name: "images[0][url]", value: " "},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "At least one image is required.", details["images"])

	var n int64
	require.NoError(t, f.conn.Unscoped().Model(&models.Banner{}).Count(&n).Error)
	assert.Zero(t, n)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestJSONStoreKeepsExternalImageURL(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, jsonRequest(http.MethodPost, "/",
		`{"title":"Sale","is_active":true,"images":[{"url":"https://cdn.x/a.png"}]}`))
	require.Equal(t, http.StatusCreated, code, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Sale", data["title"])
	assert.Equal(t, true, data["is_active"])
	imgs := images(body)
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn.x/a.png", imgs[0].(map[string]any)["image_url"])
	assert.Empty(t, f.files.Paths())
}

func TestStoreRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)

	for _, title := range []string{`""`, `"   "`} {
		code, body := serve(t, f.handler, jsonRequest(http.MethodPost, "/",
			`{"title":`+title+`,"images":[{"url":"https://cdn.x/a.png"}]}`))
		require.Equal(t, http.StatusUnprocessableEntity, code, title)
		details := body["error"].(map[string]any)["details"].(map[string]any)
		assert.Equal(t, "is required", details["title"], title)
	}

	code, body := serve(t, f.handler, multipartRequest(t, http.MethodPost, "/", []part{
		{name: "title", value: "   "},
		{name: "images[0][url]", value: "https://cdn.x/a.png"},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "is required", details["title"])

	var n int64
	require.NoError(t, f.conn.Unscoped().Model(&models.Banner{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, jsonRequest(http.MethodPost, "/",
		`{"title":"Keep","images":[{"url":"https://cdn.x/a.png"}]}`))
	require.Equal(t, http.StatusCreated, code, body)

	code, body = serve(t, f.handler, jsonRequest(http.MethodPut, "/1", `{"title":"  "}`))
	require.Equal(t, http.StatusUnprocessableEntity, code, body)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "is required", details["title"])

	var banner models.Banner
	require.NoError(t, f.conn.First(&banner, 1).Error)
	assert.Equal(t, "Keep", banner.Title)
}

func TestMultipartRejectsBadFieldsTogether(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, multipartRequest(t, http.MethodPost, "/", []part{
		{name: "is_active", value: "maybe"},
		{name: "images[0][file]", file: []byte("plain text, not an image")},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "is required", details["title"])
	assert.Equal(t, "must be true or false", details["is_active"])
	assert.Contains(t, details["images.0.file"], "must be an image")
}

func TestMethodOverrideUpdateReplacesImages(t *testing.T) {
	f := newFixture(t)

	create := `{"title":"Json","images":[{"url":"https://cdn.test/1.png"},{"url":"https://cdn.test/2.png"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(create))
	req.Header.Set("Content-Type", "application/json")
	code, body := serve(t, f.handler, req)
	require.Equal(t, http.StatusCreated, code, body)
	require.Len(t, images(body), 2)

	code, body = serve(t, f.handler, multipartRequest(t, http.MethodPost, "/1?_method=PUT", []part{
		{name: "link", value: ""},
		{name: "images[0][file]", file: pngBytes},
	}))
	require.Equal(t, http.StatusOK, code, body)
	assert.Nil(t, body["data"].(map[string]any)["link"])
	imgs := images(body)
	require.Len(t, imgs, 1)
	assert.True(t, strings.HasPrefix(imgs[0].(map[string]any)["image"].(string), "banner/"))

	req = httptest.NewRequest(http.MethodPut, "/1", strings.NewReader(`{"title":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	code, body = serve(t, f.handler, req)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "New", body["data"].(map[string]any)["title"])
	assert.Len(t, images(body), 1)
}

func TestForceRouteRemovesStoredFiles(t *testing.T) {
	f := newFixture(t)

	code, body := serve(t, f.handler, multipartRequest(t, http.MethodPost, "/", []part{
		{name: "title", value: "Gone"},
		{name: "images[0][file]", file: pngBytes},
	}))
	require.Equal(t, http.StatusCreated, code, body)
	require.Len(t, f.files.Paths(), 1)

	code, body = serve(t, f.handler, httptest.NewRequest(http.MethodDelete, "/1/force", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Banner permanently deleted", body["message"])
	assert.Empty(t, f.files.Paths())
}
