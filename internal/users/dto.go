package users

import (
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	Phone       *string        `json:"phone"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.UserRole
	Phone        *string
	GoogleID     *string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	dto := &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Phone:       u.Phone,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		at := u.DeletedAt.Time
		dto.DeletedAt = &at
	}
	return dto
}

// Present serializes a user for the admin surface.
func Present(u *models.User) any {
	return FromModel(u)
}

func (d CreateUserDTO) ToModel() *models.User {
	isActive := true
	if d.IsActive != nil {
		isActive = *d.IsActive
	}
	role := d.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Name:         d.Name,
		Email:        NormalizeEmail(d.Email),
		PasswordHash: d.PasswordHash,
		Role:         role,
		Phone:        models.TrimOrNil(d.Phone),
		GoogleID:     d.GoogleID,
		IsActive:     isActive,
	}
}
