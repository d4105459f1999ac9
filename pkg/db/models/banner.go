package models

import (
	"time"

	"gorm.io/gorm"
)

// Banner is a storefront promotion with one or more images.
type Banner struct {
	ID        uint           `gorm:"primaryKey"`
	Title     string         `gorm:"column:title;size:255;not null"`
	Link      *string        `gorm:"column:link;size:500"`
	IsActive  bool           `gorm:"column:is_active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Images []BannerImage `gorm:"foreignKey:BannerID"`
}

// BannerImage stores either a relative storage path or an absolute URL.
type BannerImage struct {
	ID       uint   `gorm:"primaryKey"`
	BannerID uint   `gorm:"column:banner_id;not null;index"`
	Image    string `gorm:"column:image;not null"`
	IsActive bool   `gorm:"column:is_active;not null"`
}
