package models

import (
	"time"

	"gorm.io/datatypes"
)

// Wishlist keeps a user's liked product ids. It has no soft-delete column.
type Wishlist struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	UserID    uint                      `gorm:"column:user_id;not null;index" json:"user_id"`
	Products  datatypes.JSONSlice[uint] `gorm:"column:products" json:"products"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
