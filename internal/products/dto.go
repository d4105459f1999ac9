package product

import (
	"github.com/angelmondragon/storefront-admin/internal/categories"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// categoryStub stands in for a missing category so clients can always read
// category.name.
type categoryStub struct {
	ID   *uint   `json:"id"`
	Name *string `json:"name"`
}

// ProductDTO is the wire shape of a product with its category resolved.
type ProductDTO struct {
	models.Product
	Category any          `json:"category"`
	Variants []VariantDTO `json:"variants"`
	ImageURL string       `json:"image_url"`
}

// VariantDTO adds the resolved image URL to a variant.
type VariantDTO struct {
	models.ProductVariant
	ImageURL string `json:"image_url"`
}

func ToDTO(files storage.URLResolver, p *models.Product) ProductDTO {
	dto := ProductDTO{
		Product:  *p,
		Category: categoryStub{},
		Variants: make([]VariantDTO, 0, len(p.Variants)),
	}
	if p.Category != nil {
		dto.Category = categories.ToDTO(files, p.Category)
	}
	if p.Image != nil {
		dto.ImageURL = storage.ResolveURL(files, *p.Image)
	}
	for i := range p.Variants {
		dto.Variants = append(dto.Variants, ToVariantDTO(files, &p.Variants[i]))
	}
	return dto
}

func ToVariantDTO(files storage.URLResolver, v *models.ProductVariant) VariantDTO {
	dto := VariantDTO{ProductVariant: *v}
	if v.Image != nil {
		dto.ImageURL = storage.ResolveURL(files, *v.Image)
	}
	return dto
}

// Present serializes products for the admin and storefront surfaces.
func Present(files storage.URLResolver) func(*models.Product) any {
	return func(p *models.Product) any {
		return ToDTO(files, p)
	}
}

// PresentVariant serializes variants.
func PresentVariant(files storage.URLResolver) func(*models.ProductVariant) any {
	return func(v *models.ProductVariant) any {
		return ToVariantDTO(files, v)
	}
}
