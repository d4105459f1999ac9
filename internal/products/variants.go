package product

import (
	"context"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VariantDescriptor configures the admin variant listing.
var VariantDescriptor = resource.Descriptor{
	Name:          "Product variant",
	Table:         "product_variants",
	SearchColumns: []string{"sku"},
	Filters:       map[string]string{"product_id": "product_id"},
	Preloads: []resource.Preload{
		{Relation: "Product", WithTrashed: true},
		{Relation: "Attribute", WithTrashed: true},
	},
	SoftDelete: true,
}

type CreateVariantInput struct {
	ProductID      *uint            `json:"product_id" validate:"required"`
	SKU            *string          `json:"sku" validate:"omitempty,max=100"`
	Price          *decimal.Decimal `json:"price"`
	Stock          *int             `json:"stock" validate:"omitnil,gte=0"`
	AttributeID    *uint            `json:"attribute_id"`
	AttributeValue *string          `json:"attribute_value" validate:"omitempty,max=255"`
	Image          *string          `json:"image" validate:"omitempty,max=500"`
}

type UpdateVariantInput struct {
	ProductID      *uint            `json:"product_id"`
	SKU            *string          `json:"sku" validate:"omitempty,max=100"`
	Price          *decimal.Decimal `json:"price"`
	Stock          *int             `json:"stock" validate:"omitnil,gte=0"`
	AttributeID    *uint            `json:"attribute_id"`
	AttributeValue *string          `json:"attribute_value" validate:"omitempty,max=255"`
	Image          *string          `json:"image" validate:"omitempty,max=500"`
}

type VariantService = resource.Service[models.ProductVariant, CreateVariantInput, UpdateVariantInput]

// NewVariantService builds the product variant admin service.
func NewVariantService(deps resource.Deps) (VariantService, error) {
	return resource.Build(deps, VariantDescriptor, resource.Hooks[models.ProductVariant, CreateVariantInput, UpdateVariantInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateVariantInput) (*models.ProductVariant, error) {
			if in.Price == nil {
				return nil, pkgerrors.Invalid(map[string]string{"price": "is required"})
			}
			if err := checkPrice(*in.Price); err != nil {
				return nil, err
			}
			if err := resource.RequireExisting[models.Product](ctx, tx, "product_id", *in.ProductID); err != nil {
				return nil, err
			}
			if err := attributeRef(ctx, tx, in.AttributeID); err != nil {
				return nil, err
			}
			v := &models.ProductVariant{
				ProductID:      *in.ProductID,
				SKU:            in.SKU,
				Price:          *in.Price,
				AttributeID:    in.AttributeID,
				AttributeValue: models.TrimOrNil(in.AttributeValue),
				Image:          in.Image,
			}
			resource.Set(&v.Stock, in.Stock)
			return v, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, v *models.ProductVariant, in UpdateVariantInput) error {
			if in.ProductID != nil {
				if err := resource.RequireExisting[models.Product](ctx, tx, "product_id", *in.ProductID); err != nil {
					return err
				}
				v.ProductID = *in.ProductID
			}
			if in.Price != nil {
				if err := checkPrice(*in.Price); err != nil {
					return err
				}
				v.Price = *in.Price
			}
			if in.AttributeID != nil {
				if err := attributeRef(ctx, tx, in.AttributeID); err != nil {
					return err
				}
				v.AttributeID = in.AttributeID
				if *in.AttributeID == 0 {
					v.AttributeID = nil
				}
			}
			resource.SetPtr(&v.SKU, in.SKU)
			resource.Set(&v.Stock, in.Stock)
			if in.AttributeValue != nil {
				v.AttributeValue = models.TrimOrNil(in.AttributeValue)
			}
			if in.Image != nil {
				next := models.TrimOrNil(in.Image)
				if v.Image != nil && (next == nil || *next != *v.Image) {
					resource.RemoveAfterCommit(ctx, *v.Image)
				}
				v.Image = next
			}
			return nil
		},
		BeforeForceDelete: func(ctx context.Context, _ *gorm.DB, v *models.ProductVariant) error {
			if v.Image != nil {
				resource.RemoveAfterCommit(ctx, *v.Image)
			}
			return nil
		},
	})
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.Invalid(map[string]string{"price": "must be greater than or equal to 0"})
	}
	return nil
}

func attributeRef(ctx context.Context, tx *gorm.DB, id *uint) error {
	if id == nil || *id == 0 {
		return nil
	}
	return resource.RequireExisting[models.Attribute](ctx, tx, "attribute_id", *id)
}
