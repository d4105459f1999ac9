package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductReview struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"column:product_id;not null;index" json:"product_id"`
	UserID    uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	Rating    int            `gorm:"column:rating;not null" json:"rating"`
	Comment   *string        `gorm:"column:comment" json:"comment"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
