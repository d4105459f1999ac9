package wishlist

import (
	"context"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Descriptor configures the admin wishlist listing. Wishlists have no
// deletion marker, so destroy removes the row.
var Descriptor = resource.Descriptor{
	Name:       "Wishlist",
	Table:      "wishlists",
	Filters:    map[string]string{"user_id": "user_id"},
	Preloads:   []resource.Preload{{Relation: "User", WithTrashed: true}},
	SoftDelete: false,
}

type CreateInput struct {
	UserID   *uint  `json:"user_id" validate:"required"`
	Products []uint `json:"products"`
}

type UpdateInput struct {
	UserID   *uint   `json:"user_id"`
	Products *[]uint `json:"products"`
}

type Service = resource.Service[models.Wishlist, CreateInput, UpdateInput]

// NewService builds the wishlist admin service.
func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.Wishlist, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.Wishlist, error) {
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return nil, err
			}
			return &models.Wishlist{UserID: *in.UserID, Products: productIDs(in.Products)}, nil
		},
		Apply: func(ctx context.Context, tx *gorm.DB, w *models.Wishlist, in UpdateInput) error {
			if in.UserID != nil {
				if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
					return err
				}
				w.UserID = *in.UserID
			}
			if in.Products != nil {
				w.Products = productIDs(*in.Products)
			}
			return nil
		},
	})
}

// productIDs drops zero and repeated ids, keeping first-seen order.
func productIDs(ids []uint) datatypes.JSONSlice[uint] {
	out := make(datatypes.JSONSlice[uint], 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
