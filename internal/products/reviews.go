package product

import (
	"context"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"gorm.io/gorm"
)

// ReviewDescriptor configures the admin review listing.
var ReviewDescriptor = resource.Descriptor{
	Name:          "Product review",
	Table:         "product_reviews",
	SearchColumns: []string{"comment"},
	Filters:       map[string]string{"product_id": "product_id", "user_id": "user_id"},
	Preloads:      []resource.Preload{{Relation: "User", WithTrashed: true}},
	SoftDelete:    true,
}

type CreateReviewInput struct {
	ProductID *uint   `json:"product_id" validate:"required"`
	UserID    *uint   `json:"user_id" validate:"required"`
	Rating    *int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitnil,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewService = resource.Service[models.ProductReview, CreateReviewInput, UpdateReviewInput]

// NewReviewService builds the product review admin service.
func NewReviewService(deps resource.Deps) (ReviewService, error) {
	return resource.Build(deps, ReviewDescriptor, resource.Hooks[models.ProductReview, CreateReviewInput, UpdateReviewInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateReviewInput) (*models.ProductReview, error) {
			if err := resource.RequireExisting[models.Product](ctx, tx, "product_id", *in.ProductID); err != nil {
				return nil, err
			}
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return nil, err
			}
			return &models.ProductReview{
				ProductID: *in.ProductID,
				UserID:    *in.UserID,
				Rating:    *in.Rating,
				Comment:   models.TrimOrNil(in.Comment),
			}, nil
		},
		Apply: func(_ context.Context, _ *gorm.DB, r *models.ProductReview, in UpdateReviewInput) error {
			resource.Set(&r.Rating, in.Rating)
			if in.Comment != nil {
				r.Comment = models.TrimOrNil(in.Comment)
			}
			return nil
		},
	})
}
