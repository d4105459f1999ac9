package product

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"gorm.io/gorm"
)

// Descriptor configures the admin product listing. Keyword search also
// matches the sku of any live variant.
var Descriptor = resource.Descriptor{
	Name:          "Product",
	Table:         "products",
	SearchColumns: []string{"name", "sku"},
	SearchClauses: []string{
		"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL AND LOWER(pv.sku) LIKE ?)",
	},
	Filters: map[string]string{"category_id": "category_id"},
	Preloads: []resource.Preload{
		{Relation: "Category", WithTrashed: true},
		{Relation: "Variants", Order: "product_variants.id ASC"},
		{Relation: "Reviews", Order: "product_reviews.id DESC"},
	},
	SoftDelete: true,
}

type CreateInput struct {
	Name            *string `json:"name" validate:"required,notblank,max=255"`
	SKU             *string `json:"sku" validate:"omitempty,max=100"`
	CategoryID      *uint   `json:"category_id"`
	Description     *string `json:"description"`
	Origin          *string `json:"origin" validate:"omitempty,max=255"`
	Brand           *string `json:"brand" validate:"omitempty,max=255"`
	Image           *string `json:"image" validate:"omitempty,max=500"`
	VariationStatus *bool   `json:"variation_status"`
}

type UpdateInput struct {
	Name            *string `json:"name" validate:"omitnil,notblank,max=255"`
	SKU             *string `json:"sku" validate:"omitempty,max=100"`
	CategoryID      *uint   `json:"category_id"`
	Description     *string `json:"description"`
	Origin          *string `json:"origin" validate:"omitempty,max=255"`
	Brand           *string `json:"brand" validate:"omitempty,max=255"`
	Image           *string `json:"image" validate:"omitempty,max=500"`
	VariationStatus *bool   `json:"variation_status"`
}

type Service = resource.Service[models.Product, CreateInput, UpdateInput]

// NewService builds the product admin service.
func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.Product, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.Product, error) {
			categoryID, err := categoryRef(ctx, tx, in.CategoryID)
			if err != nil {
				return nil, err
			}
			p := &models.Product{
				Name:        strings.TrimSpace(*in.Name),
				SKU:         in.SKU,
				CategoryID:  categoryID,
				Description: in.Description,
				Origin:      models.TrimOrNil(in.Origin),
				Brand:       models.TrimOrNil(in.Brand),
				Image:       in.Image,
			}
			resource.Set(&p.VariationStatus, in.VariationStatus)
			return p, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, p *models.Product, in UpdateInput) error {
			if in.CategoryID != nil {
				categoryID, err := categoryRef(ctx, tx, in.CategoryID)
				if err != nil {
					return err
				}
				p.CategoryID = categoryID
			}
			if in.Name != nil {
				p.Name = strings.TrimSpace(*in.Name)
			}
			if in.SKU != nil {
				p.SKU = in.SKU
			}
			resource.SetPtr(&p.Description, in.Description)
			if in.Origin != nil {
				p.Origin = models.TrimOrNil(in.Origin)
			}
			if in.Brand != nil {
				p.Brand = models.TrimOrNil(in.Brand)
			}
			if in.Image != nil {
				next := models.TrimOrNil(in.Image)
				if p.Image != nil && (next == nil || *next != *p.Image) {
					resource.RemoveAfterCommit(ctx, *p.Image)
				}
				p.Image = next
			}
			resource.Set(&p.VariationStatus, in.VariationStatus)
			return nil
		},
		BeforeForceDelete: func(ctx context.Context, tx *gorm.DB, p *models.Product) error {
			return purgeChildren(ctx, tx, p)
		},
	})
}

// categoryRef validates an optional category id; 0 clears the link.
func categoryRef(ctx context.Context, tx *gorm.DB, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	if err := resource.RequireExisting[models.Category](ctx, tx, "category_id", *id); err != nil {
		return nil, err
	}
	v := *id
	return &v, nil
}

// purgeChildren removes variants and reviews of p, trashed ones included,
// and queues every image they reference.
func purgeChildren(ctx context.Context, tx *gorm.DB, p *models.Product) error {
	var variants []models.ProductVariant
	if err := tx.WithContext(ctx).Unscoped().Where("product_id = ?", p.ID).Find(&variants).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variants")
	}
	for _, v := range variants {
		if v.Image != nil {
			resource.RemoveAfterCommit(ctx, *v.Image)
		}
	}
	if p.Image != nil {
		resource.RemoveAfterCommit(ctx, *p.Image)
	}
	if err := tx.WithContext(ctx).Unscoped().Where("product_id = ?", p.ID).Delete(&models.ProductVariant{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variants")
	}
	if err := tx.WithContext(ctx).Unscoped().Where("product_id = ?", p.ID).Delete(&models.ProductReview{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete reviews")
	}
	return nil
}
