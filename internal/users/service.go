package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"gorm.io/gorm"
)

const emailTakenMessage = "The email has already been taken."

// Descriptor configures the admin user listing.
var Descriptor = resource.Descriptor{
	Name:          "User",
	Table:         "users",
	SearchColumns: []string{"name", "email"},
	Filters:       map[string]string{"role": "role"},
	SoftDelete:    true,
}

type CreateInput struct {
	Name     *string `json:"name" validate:"required,notblank,max=255"`
	Email    *string `json:"email" validate:"required,email,max=255"`
	Password *string `json:"password" validate:"required,min=8,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin customer"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	IsActive *bool   `json:"is_active"`
}

type UpdateInput struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=8,max=255"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin customer"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	IsActive *bool   `json:"is_active"`
}

type Service = resource.Service[models.User, CreateInput, UpdateInput]

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// NewService builds the user admin service.
func NewService(deps resource.Deps, hasher PasswordHasher) (Service, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("%s: database is required", Descriptor.Name)
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	repo := NewRepository(deps.DB.DB())

	ensureEmailFree := func(ctx context.Context, tx *gorm.DB, email string, exceptID uint) error {
		taken, err := repo.WithTx(tx).EmailTaken(ctx, email, exceptID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check email")
		}
		if taken {
			return pkgerrors.Invalid(map[string]string{"email": emailTakenMessage})
		}
		return nil
	}
	hash := func(password string) (string, error) {
		h, err := hasher.Hash(password)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		return h, nil
	}

	return resource.Build(deps, Descriptor, resource.Hooks[models.User, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.User, error) {
			if err := ensureEmailFree(ctx, tx, *in.Email, 0); err != nil {
				return nil, err
			}
			passwordHash, err := hash(*in.Password)
			if err != nil {
				return nil, err
			}
			dto := CreateUserDTO{
				Name:         strings.TrimSpace(*in.Name),
				Email:        *in.Email,
				PasswordHash: passwordHash,
				Phone:        in.Phone,
				IsActive:     in.IsActive,
			}
			if in.Role != nil {
				dto.Role = enums.UserRole(*in.Role)
			}
			return dto.ToModel(), nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, u *models.User, in UpdateInput) error {
			if in.Email != nil && NormalizeEmail(*in.Email) != u.Email {
				if err := ensureEmailFree(ctx, tx, *in.Email, u.ID); err != nil {
					return err
				}
				u.Email = NormalizeEmail(*in.Email)
			}
			if in.Password != nil {
				passwordHash, err := hash(*in.Password)
				if err != nil {
					return err
				}
				u.PasswordHash = passwordHash
			}
			if in.Name != nil {
				u.Name = strings.TrimSpace(*in.Name)
			}
			if in.Role != nil {
				u.Role = enums.UserRole(*in.Role)
			}
			if in.Phone != nil {
				u.Phone = models.TrimOrNil(in.Phone)
			}
			resource.Set(&u.IsActive, in.IsActive)
			return nil
		},
	})
}
