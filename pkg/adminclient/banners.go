package adminclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

// MaxImageBytes is the largest image the client will send.
const MaxImageBytes = 8 << 20

const storagePrefix = "/storage/"

type Banner struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Link      *string       `json:"link"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	DeletedAt *time.Time    `json:"deleted_at"`
	Images    []BannerImage `json:"images"`
}

type BannerImage struct {
	ID       uint   `json:"id"`
	BannerID uint   `json:"banner_id"`
	Image    string `json:"image"`
	IsActive bool   `json:"is_active"`
	ImageURL string `json:"image_url"`
}

// BannerForm is the add/edit form. The single image slot is either a local
// file or a URL; the file wins when both are set. On edit an empty slot
// leaves the stored images alone.
type BannerForm struct {
	Title       string
	Link        string
	IsActive    bool
	ImageFile   string
	ImageURL    string
	ImageActive bool
}

func (f BannerForm) hasImage() bool {
	return strings.TrimSpace(f.ImageFile) != "" || strings.TrimSpace(f.ImageURL) != ""
}

func (c *Client) banners() *Resource {
	return c.Resource("banners", WithForcePath("force"))
}

func (c *Client) ListBanners(ctx context.Context, page, perPage int, keyword string) ([]Banner, Meta, error) {
	var env pageEnvelope[Banner]
	q := listQuery(ListOptions{Page: page, PerPage: perPage, Keyword: keyword})
	err := c.do(ctx, request{method: http.MethodGet, path: c.banners().path(), query: q}, &env)
	return env.Data, env.Meta, err
}

func (c *Client) GetBanner(ctx context.Context, id uint) (*Banner, error) {
	var env dataEnvelope[Banner]
	if err := c.do(ctx, request{method: http.MethodGet, path: c.banners().path(id)}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) CreateBanner(ctx context.Context, form BannerForm) (*Banner, error) {
	if !form.hasImage() {
		return nil, pkgerrors.Invalid(map[string]string{"images": "an image file or url is required"})
	}
	req, err := c.bannerRequest(http.MethodPost, c.banners().path(), form)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[Banner]
	if err := c.do(ctx, req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UpdateBanner sends the whole form. A supplied image replaces every stored
// image of the banner.
func (c *Client) UpdateBanner(ctx context.Context, id uint, form BannerForm) (*Banner, error) {
	req, err := c.bannerRequest(http.MethodPut, c.banners().path(id), form)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[Banner]
	if err := c.do(ctx, req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) DeleteBanner(ctx context.Context, id uint) (string, error) {
	return c.banners().Delete(ctx, id)
}

func (c *Client) TrashBanners(ctx context.Context) ([]Banner, error) {
	var env dataEnvelope[[]Banner]
	err := c.do(ctx, request{method: http.MethodGet, path: c.banners().path("trash")}, &env)
	return env.Data, err
}

func (c *Client) RestoreBanner(ctx context.Context, id uint) (string, error) {
	return c.banners().Restore(ctx, id)
}

func (c *Client) ForceDeleteBanner(ctx context.Context, id uint) (string, error) {
	return c.banners().ForceDelete(ctx, id)
}

// bannerRequest encodes form as multipart when it carries a file and as JSON
// otherwise. Multipart updates tunnel through POST with _method=PUT.
func (c *Client) bannerRequest(method, path string, form BannerForm) (request, error) {
	file := strings.TrimSpace(form.ImageFile)
	if file == "" {
		return jsonRequest(method, path, c.bannerJSON(form))
	}

	content, err := readImage(file)
	if err != nil {
		return request{}, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"title", form.Title},
		{"link", strings.TrimSpace(form.Link)},
		{"is_active", boolField(form.IsActive)},
		{"images[0][is_active]", boolField(form.ImageActive)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return request{}, fmt.Errorf("write %s: %w", f[0], err)
		}
	}
	part, err := mw.CreateFormFile("images[0][file]", filepath.Base(file))
	if err != nil {
		return request{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return request{}, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return request{}, fmt.Errorf("close multipart: %w", err)
	}

	req := request{method: method, path: path, body: &buf, contentType: mw.FormDataContentType()}
	if method == http.MethodPut {
		req.method = http.MethodPost
		req.query = url.Values{"_method": {http.MethodPut}}
	}
	return req, nil
}

type bannerImagePayload struct {
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

type bannerPayload struct {
	Title    string               `json:"title"`
	Link     *string              `json:"link"`
	IsActive bool                 `json:"is_active"`
	Images   []bannerImagePayload `json:"images,omitempty"`
}

func (c *Client) bannerJSON(form BannerForm) bannerPayload {
	p := bannerPayload{Title: form.Title, IsActive: form.IsActive}
	if link := strings.TrimSpace(form.Link); link != "" {
		p.Link = &link
	}
	if raw := strings.TrimSpace(form.ImageURL); raw != "" {
		p.Images = []bannerImagePayload{{URL: c.NormalizeImageURL(raw), IsActive: form.ImageActive}}
	}
	return p
}

// NormalizeImageURL maps a URL served by this backend back to its stored
// path, e.g. http://host/storage/banners/a.png to banners/a.png. Foreign
// URLs pass through unchanged.
func (c *Client) NormalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	origin := c.base.Scheme + "://" + c.base.Host
	if strings.HasPrefix(raw, origin+"/") {
		raw = strings.TrimPrefix(raw, origin)
	} else if strings.Contains(raw, "://") {
		return raw
	}
	raw = strings.TrimPrefix(raw, storagePrefix)
	return strings.TrimLeft(raw, "/")
}

func readImage(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, pkgerrors.Invalid(map[string]string{"images.0.file": err.Error()})
	}
	if info.IsDir() {
		return nil, pkgerrors.Invalid(map[string]string{"images.0.file": "must be a file"})
	}
	if info.Size() > MaxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeTooLarge, "image must not be larger than 8MB")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
