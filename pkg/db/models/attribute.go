package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attribute names a variant dimension such as size or colour.
type Attribute struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Name      string                      `gorm:"column:name;not null" json:"name"`
	Values    datatypes.JSONSlice[string] `gorm:"column:attribute_values" json:"values"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"column:deleted_at;index" json:"deleted_at"`
}
