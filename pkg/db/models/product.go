package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Its category may be soft-deleted independently.
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	SKU             *string        `gorm:"column:sku;size:100;index" json:"sku"`
	CategoryID      *uint          `gorm:"column:category_id;index" json:"category_id"`
	Description     *string        `gorm:"column:description" json:"description"`
	Origin          *string        `gorm:"column:origin" json:"origin"`
	Brand           *string        `gorm:"column:brand" json:"brand"`
	Image           *string        `gorm:"column:image" json:"image"`
	VariationStatus bool           `gorm:"column:variation_status;not null" json:"variation_status"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`

	Category *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Reviews  []ProductReview  `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

// BeforeSave keeps sku upper-cased and drops blank optional strings.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.SKU = NormalizeSKU(p.SKU)
	p.Image = TrimOrNil(p.Image)
	return nil
}

// NormalizeSKU trims and upper-cases a sku; blank values become nil.
func NormalizeSKU(sku *string) *string {
	trimmed := TrimOrNil(sku)
	if trimmed == nil {
		return nil
	}
	upper := strings.ToUpper(*trimmed)
	return &upper
}

// TrimOrNil trims s and maps the empty string to nil.
func TrimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
