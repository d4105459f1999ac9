package cart

import (
	"context"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"gorm.io/gorm"
)

// Descriptor configures the admin cart listing.
var Descriptor = resource.Descriptor{
	Name:       "Cart",
	Table:      "carts",
	Filters:    map[string]string{"user_id": "user_id"},
	Preloads:   []resource.Preload{{Relation: "User", WithTrashed: true}},
	SoftDelete: true,
}

type CreateInput struct {
	UserID *uint `json:"user_id" validate:"required"`
}

type UpdateInput struct {
	UserID *uint `json:"user_id"`
}

type Service = resource.Service[models.Cart, CreateInput, UpdateInput]

// NewService builds the cart admin service. An update without fields still
// saves the row, which bumps updated_at.
func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.Cart, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.Cart, error) {
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return nil, err
			}
			return &models.Cart{UserID: *in.UserID}, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, c *models.Cart, in UpdateInput) error {
			if in.UserID == nil {
				return nil
			}
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return err
			}
			c.UserID = *in.UserID
			return nil
		},
	})
}
