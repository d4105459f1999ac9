package banners

import (
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// DTO is the wire shape of a banner.
type DTO struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Link      *string    `json:"link"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
	Images    []ImageDTO `json:"images"`
}

// ImageDTO carries the stored value and the URL clients should load.
type ImageDTO struct {
	ID       uint   `json:"id"`
	BannerID uint   `json:"banner_id"`
	Image    string `json:"image"`
	IsActive bool   `json:"is_active"`
	ImageURL string `json:"image_url"`
}

func ToDTO(files storage.URLResolver, b *models.Banner) DTO {
	dto := DTO{
		ID:        b.ID,
		Title:     b.Title,
		Link:      b.Link,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Images:    make([]ImageDTO, 0, len(b.Images)),
	}
	if b.DeletedAt.Valid {
		at := b.DeletedAt.Time
		dto.DeletedAt = &at
	}
	for _, img := range b.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:       img.ID,
			BannerID: img.BannerID,
			Image:    img.Image,
			IsActive: img.IsActive,
			ImageURL: storage.ResolveURL(files, img.Image),
		})
	}
	return dto
}

// Present serializes banners for the admin surface.
func Present(files storage.URLResolver) func(*models.Banner) any {
	return func(b *models.Banner) any {
		return ToDTO(files, b)
	}
}
