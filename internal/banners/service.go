package banners

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"github.com/angelmondragon/storefront-admin/pkg/types"
	"gorm.io/gorm"
)

const (
	// Dir is the storage directory for uploaded banner images.
	Dir = "banner"

	maxLinkLength      = 500
	imagesRequiredText = "At least one image is required."
)

// Descriptor configures the admin banner listing.
var Descriptor = resource.Descriptor{
	Name:          "Banner",
	Table:         "banners",
	SearchColumns: []string{"title"},
	Filters:       map[string]string{"is_active": "is_active"},
	Preloads:      []resource.Preload{{Relation: "Images", Order: "banner_images.id ASC"}},
	SoftDelete:    true,
}

// ImageInput is one entry of the images collection. File takes priority
// over URL; entries with neither are skipped.
type ImageInput struct {
	File     *storage.Upload `json:"-"`
	URL      *string         `json:"url" validate:"omitempty,max=2048"`
	IsActive *bool           `json:"is_active"`
}

type CreateInput struct {
	Title    *string      `json:"title" validate:"required,notblank,max=255"`
	Link     *string      `json:"link" validate:"omitempty,max=500"`
	IsActive *bool        `json:"is_active"`
	Images   []ImageInput `json:"images" validate:"omitempty,dive"`
}

// UpdateInput merges only supplied fields. A present Images replaces the
// whole collection; an explicit null Link clears it.
type UpdateInput struct {
	Title    *string                `json:"title" validate:"omitnil,notblank,max=255"`
	Link     types.Nullable[string] `json:"link"`
	IsActive *bool                  `json:"is_active"`
	Images   *[]ImageInput          `json:"images" validate:"omitnil,dive"`
}

type Service = resource.Service[models.Banner, CreateInput, UpdateInput]

// NewService builds the banner admin service. Uploaded files are written to
// deps.Files under Dir.
func NewService(deps resource.Deps) (Service, error) {
	files := deps.Files
	return resource.Build(deps, Descriptor, resource.Hooks[models.Banner, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, _ *gorm.DB, in CreateInput) (*models.Banner, error) {
			entries, err := usableImages(in.Images)
			if err != nil {
				return nil, err
			}
			b := &models.Banner{
				Title:    strings.TrimSpace(*in.Title),
				Link:     models.TrimOrNil(in.Link),
				IsActive: true,
			}
			resource.Set(&b.IsActive, in.IsActive)
			if b.Images, err = storeImages(ctx, files, entries); err != nil {
				return nil, err
			}
			return b, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, b *models.Banner, in UpdateInput) error {
			if in.Title != nil {
				b.Title = strings.TrimSpace(*in.Title)
			}
			if in.Link.Present {
				if in.Link.Value != nil && utf8.RuneCountInString(*in.Link.Value) > maxLinkLength {
					return pkgerrors.Invalid(map[string]string{"link": fmt.Sprintf("may not be greater than %d characters", maxLinkLength)})
				}
				in.Link.Apply(&b.Link)
				b.Link = models.TrimOrNil(b.Link)
			}
			resource.Set(&b.IsActive, in.IsActive)
			if in.Images == nil {
				return nil
			}
			return replaceImages(ctx, tx, files, b, *in.Images)
		},
		AfterSave: func(ctx context.Context, tx *gorm.DB, b *models.Banner) error {
			for i := range b.Images {
				img := &b.Images[i]
				if img.ID != 0 {
					continue
				}
				img.BannerID = b.ID
				if err := tx.WithContext(ctx).Create(img).Error; err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert banner image")
				}
			}
			return nil
		},
		BeforeForceDelete: func(ctx context.Context, tx *gorm.DB, b *models.Banner) error {
			old, err := dropImages(ctx, tx, b.ID)
			if err != nil {
				return err
			}
			resource.RemoveAfterCommit(ctx, old...)
			return nil
		},
	})
}

// replaceImages swaps the collection of b for entries. Old files no longer
// referenced are removed after commit.
func replaceImages(ctx context.Context, tx *gorm.DB, files storage.Store, b *models.Banner, images []ImageInput) error {
	entries, err := usableImages(images)
	if err != nil {
		return err
	}
	old, err := dropImages(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	if b.Images, err = storeImages(ctx, files, entries); err != nil {
		return err
	}

	kept := make(map[string]struct{}, len(b.Images))
	for _, img := range b.Images {
		kept[storage.Normalize(img.Image)] = struct{}{}
	}
	for _, p := range old {
		if _, ok := kept[storage.Normalize(p)]; !ok {
			resource.RemoveAfterCommit(ctx, p)
		}
	}
	return nil
}

// dropImages deletes the image rows of a banner and returns their paths.
func dropImages(ctx context.Context, tx *gorm.DB, bannerID uint) ([]string, error) {
	var rows []models.BannerImage
	if err := tx.WithContext(ctx).Where("banner_id = ?", bannerID).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load banner images")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := tx.WithContext(ctx).Where("banner_id = ?", bannerID).Delete(&models.BannerImage{}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete banner images")
	}
	paths := make([]string, 0, len(rows))
	for _, r := range rows {
		paths = append(paths, r.Image)
	}
	return paths, nil
}

// usableImages drops entries carrying neither a file nor a url and checks
// the url of the rest. It fails when nothing usable remains.
func usableImages(images []ImageInput) ([]ImageInput, error) {
	out := make([]ImageInput, 0, len(images))
	fieldErrs := map[string]string{}
	for i, img := range images {
		if img.File != nil {
			out = append(out, img)
			continue
		}
		if img.URL == nil || strings.TrimSpace(*img.URL) == "" {
			continue
		}
		if !validImageRef(*img.URL) {
			fieldErrs[fmt.Sprintf("images.%d.url", i)] = "must be a valid URL"
			continue
		}
		out = append(out, img)
	}
	if len(fieldErrs) > 0 {
		return nil, pkgerrors.Invalid(fieldErrs)
	}
	if len(out) == 0 {
		return nil, pkgerrors.Invalid(map[string]string{"images": imagesRequiredText})
	}
	return out, nil
}

// validImageRef accepts absolute http(s) URLs and stored relative paths,
// the latter so clients can resubmit images they already hold.
func validImageRef(raw string) bool {
	raw = strings.TrimSpace(raw)
	if storage.IsExternal(raw) {
		u, err := url.Parse(raw)
		return err == nil && u.Host != ""
	}
	p := storage.Normalize(raw)
	return p != "" && !strings.Contains(p, "..") && !strings.Contains(p, "://")
}

// storeImages writes uploaded files and builds unsaved image rows. Every
// stored file is removed again if the write rolls back.
func storeImages(ctx context.Context, files storage.Store, entries []ImageInput) ([]models.BannerImage, error) {
	rows := make([]models.BannerImage, 0, len(entries))
	for _, img := range entries {
		row := models.BannerImage{IsActive: true}
		resource.Set(&row.IsActive, img.IsActive)
		switch {
		case img.File != nil:
			path, err := storage.Save(ctx, files, Dir, *img.File)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store banner image")
			}
			resource.RemoveOnRollback(ctx, path)
			row.Image = path
		case storage.IsExternal(*img.URL):
			row.Image = strings.TrimSpace(*img.URL)
		default:
			row.Image = storage.Normalize(*img.URL)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
