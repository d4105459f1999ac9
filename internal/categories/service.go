package categories

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"gorm.io/gorm"
)

// Descriptor configures the admin category listing.
var Descriptor = resource.Descriptor{
	Name:          "Category",
	Table:         "categories",
	SearchColumns: []string{"name"},
	Filters:       map[string]string{"is_active": "is_active"},
	SoftDelete:    true,
}

type CreateInput struct {
	Name        *string `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type Service = resource.Service[models.Category, CreateInput, UpdateInput]

// NewService builds the category admin service.
func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.Category, CreateInput, UpdateInput]{
		Build: func(_ context.Context, _ *gorm.DB, in CreateInput) (*models.Category, error) {
			c := &models.Category{
				Name:        strings.TrimSpace(*in.Name),
				Description: in.Description,
				Image:       models.TrimOrNil(in.Image),
				IsActive:    true,
			}
			resource.Set(&c.IsActive, in.IsActive)
			return c, nil
		},
		Apply: func(ctx context.Context, _ *gorm.DB, c *models.Category, in UpdateInput) error {
			if in.Name != nil {
				c.Name = strings.TrimSpace(*in.Name)
			}
			resource.SetPtr(&c.Description, in.Description)
			if in.Image != nil {
				next := models.TrimOrNil(in.Image)
				if c.Image != nil && (next == nil || *next != *c.Image) {
					resource.RemoveAfterCommit(ctx, *c.Image)
				}
				c.Image = next
			}
			resource.Set(&c.IsActive, in.IsActive)
			return nil
		},
		BeforeForceDelete: func(ctx context.Context, _ *gorm.DB, c *models.Category) error {
			if c.Image != nil {
				resource.RemoveAfterCommit(ctx, *c.Image)
			}
			return nil
		},
	})
}

// DTO is the wire shape of a category.
type DTO struct {
	models.Category
	ImageURL string `json:"image_url"`
}

// Present adds the resolved image URL.
func Present(files storage.URLResolver) func(*models.Category) any {
	return func(c *models.Category) any {
		return ToDTO(files, c)
	}
}

func ToDTO(files storage.URLResolver, c *models.Category) DTO {
	dto := DTO{Category: *c}
	if c.Image != nil {
		dto.ImageURL = storage.ResolveURL(files, *c.Image)
	}
	return dto
}
