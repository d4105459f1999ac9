package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductVariant struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ProductID      uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	SKU            *string         `gorm:"column:sku;size:100;index" json:"sku"`
	Price          decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Stock          int             `gorm:"column:stock;not null" json:"stock"`
	AttributeID    *uint           `gorm:"column:attribute_id;index" json:"attribute_id"`
	AttributeValue *string         `gorm:"column:attribute_value" json:"attribute_value"`
	Image          *string         `gorm:"column:image" json:"image"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"deleted_at"`

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

func (v *ProductVariant) BeforeSave(*gorm.DB) error {
	v.SKU = NormalizeSKU(v.SKU)
	v.Image = TrimOrNil(v.Image)
	return nil
}
