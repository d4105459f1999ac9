package address

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"gorm.io/gorm"
)

// Descriptor configures the admin address book listing.
var Descriptor = resource.Descriptor{
	Name:          "Address",
	Table:         "address_book",
	SearchColumns: []string{"recipient_name", "phone"},
	Filters:       map[string]string{"user_id": "user_id"},
	Preloads:      []resource.Preload{{Relation: "User", WithTrashed: true}},
	SoftDelete:    true,
}

type CreateInput struct {
	UserID        *uint   `json:"user_id" validate:"required"`
	RecipientName *string `json:"recipient_name" validate:"required,notblank,max=255"`
	Phone         *string `json:"phone" validate:"required,notblank,max=30"`
	AddressLine   *string `json:"address_line" validate:"required,notblank,max=500"`
	Ward          *string `json:"ward" validate:"omitempty,max=255"`
	District      *string `json:"district" validate:"omitempty,max=255"`
	City          *string `json:"city" validate:"omitempty,max=255"`
	IsDefault     *bool   `json:"is_default"`
}

type UpdateInput struct {
	UserID        *uint   `json:"user_id"`
	RecipientName *string `json:"recipient_name" validate:"omitnil,notblank,max=255"`
	Phone         *string `json:"phone" validate:"omitnil,notblank,max=30"`
	AddressLine   *string `json:"address_line" validate:"omitnil,notblank,max=500"`
	Ward          *string `json:"ward" validate:"omitempty,max=255"`
	District      *string `json:"district" validate:"omitempty,max=255"`
	City          *string `json:"city" validate:"omitempty,max=255"`
	IsDefault     *bool   `json:"is_default"`
}

type Service = resource.Service[models.AddressBook, CreateInput, UpdateInput]

// NewService builds the address book admin service. A default entry clears
// the flag on the user's other entries in the same transaction.
func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.AddressBook, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.AddressBook, error) {
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return nil, err
			}
			a := &models.AddressBook{
				UserID:        *in.UserID,
				RecipientName: strings.TrimSpace(*in.RecipientName),
				Phone:         strings.TrimSpace(*in.Phone),
				AddressLine:   strings.TrimSpace(*in.AddressLine),
				Ward:          models.TrimOrNil(in.Ward),
				District:      models.TrimOrNil(in.District),
				City:          models.TrimOrNil(in.City),
			}
			resource.Set(&a.IsDefault, in.IsDefault)
			return a, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, a *models.AddressBook, in UpdateInput) error {
			if in.UserID != nil {
				if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
					return err
				}
				a.UserID = *in.UserID
			}
			if in.RecipientName != nil {
				a.RecipientName = strings.TrimSpace(*in.RecipientName)
			}
			if in.Phone != nil {
				a.Phone = strings.TrimSpace(*in.Phone)
			}
			if in.AddressLine != nil {
				a.AddressLine = strings.TrimSpace(*in.AddressLine)
			}
			if in.Ward != nil {
				a.Ward = models.TrimOrNil(in.Ward)
			}
			if in.District != nil {
				a.District = models.TrimOrNil(in.District)
			}
			if in.City != nil {
				a.City = models.TrimOrNil(in.City)
			}
			resource.Set(&a.IsDefault, in.IsDefault)
			return nil
		},
		AfterSave: func(ctx context.Context, tx *gorm.DB, a *models.AddressBook) error {
			if !a.IsDefault {
				return nil
			}
			err := tx.WithContext(ctx).
				Model(&models.AddressBook{}).
				Where("user_id = ? AND id <> ? AND is_default = ?", a.UserID, a.ID, true).
				Update("is_default", false).Error
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default address")
			}
			return nil
		},
	})
}
