package models

import (
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole `gorm:"column:role;type:varchar(20);not null" json:"role"`
	Phone        *string        `gorm:"column:phone" json:"phone"`
	GoogleID     *string        `gorm:"column:google_id;uniqueIndex" json:"-"`
	IsActive     bool           `gorm:"column:is_active;not null" json:"is_active"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

// IsAdmin reports whether the user may reach the admin surface.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}
