package models

import (
	"time"

	"gorm.io/gorm"
)

type AddressBook struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	RecipientName string         `gorm:"column:recipient_name;not null" json:"recipient_name"`
	Phone         string         `gorm:"column:phone;not null" json:"phone"`
	AddressLine   string         `gorm:"column:address_line;not null" json:"address_line"`
	Ward          *string        `gorm:"column:ward" json:"ward"`
	District      *string        `gorm:"column:district" json:"district"`
	City          *string        `gorm:"column:city" json:"city"`
	IsDefault     bool           `gorm:"column:is_default;not null" json:"is_default"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AddressBook) TableName() string {
	return "address_book"
}
