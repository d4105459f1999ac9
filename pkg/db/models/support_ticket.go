package models

import (
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"gorm.io/gorm"
)

type SupportTicket struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    uint               `gorm:"column:user_id;not null;index" json:"user_id"`
	Subject   string             `gorm:"column:subject;size:255;not null" json:"subject"`
	Message   string             `gorm:"column:message;not null" json:"message"`
	Status    enums.TicketStatus `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"column:deleted_at;index" json:"deleted_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
