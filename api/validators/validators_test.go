package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type sampleInput struct {
	Title  string   `json:"title" validate:"required,max=5"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Images []sample `json:"images" validate:"dive"`
}

type sample struct {
	URL string `json:"url" validate:"omitempty,url"`
}

func TestDecodeJSONBodyValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"too long title","email":"nope","images":[{"url":"not a url"}]}`))
	var in sampleInput
	err := DecodeJSONBody(req, &in)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "may not be greater than 5 characters", details["title"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be a valid URL", details["images.0.url"])
}

func TestDecodeJSONBodyRejectsUnknownAndEmpty(t *testing.T) {
	var in sampleInput
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","extra":1}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &in), pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &in), pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	require.NoError(t, DecodeJSONBody(req, &in))
	assert.Equal(t, "ok", in.Title)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	for _, raw := range []string{"", "abc", "0", "-1", "1.5"} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseBool(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "true": true, "On": true, "0": false, "false": false} {
		got, ok := ParseBool(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}

func TestPageQueryReadsRawValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=-3&per_page=abc", nil)
	p := PageQuery(req)
	assert.Equal(t, -3, p.Page)
	assert.Equal(t, 0, p.PerPage)
}

type blankInput struct {
	Name *string `json:"name" validate:"required,notblank,max=10"`
	Note *string `json:"note" validate:"omitnil,notblank"`
}

func TestNotBlankRejectsWhitespaceStrings(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   ","note":""}`))
	err := DecodeJSONBody(req, &blankInput{})
	require.Error(t, err)
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "is required", details["note"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, DecodeJSONBody(req, &blankInput{}))
}

func TestValidFolder(t *testing.T) {
	assert.True(t, ValidFolder("banner"))
	assert.True(t, ValidFolder("product-images_2"))
	assert.False(t, ValidFolder("../etc"))
	assert.False(t, ValidFolder("Upper"))
	assert.False(t, ValidFolder(""))
}

func TestDetectImage(t *testing.T) {
	ct, err := DetectImage(bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = DetectImage(strings.NewReader("plain text, not an image"))
	assert.Error(t, err)
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", "Hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImageUpload(t *testing.T) {
	req := multipartRequest(t, "file", "photo.png", pngHeader)
	require.True(t, IsMultipart(req))
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), req, 1024))
	assert.Equal(t, "Hello", req.FormValue("title"))

	fh := req.MultipartForm.File["file"][0]
	upload, err := ImageUpload(fh, 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, "photo.png", upload.Filename)

	_, err = ImageUpload(fh, 4)
	assert.Error(t, err)
}

func TestImageUploadRejectsNonImage(t *testing.T) {
	req := multipartRequest(t, "file", "notes.png", []byte("just some text"))
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), req, 1024))
	_, err := ImageUpload(req.MultipartForm.File["file"][0], 1024)
	assert.EqualError(t, err, errNotImage.Error())
}
