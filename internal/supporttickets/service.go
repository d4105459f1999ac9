package supporttickets

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"gorm.io/gorm"
)

// Descriptor configures the admin support ticket listing.
var Descriptor = resource.Descriptor{
	Name:          "Support ticket",
	Table:         "support_tickets",
	SearchColumns: []string{"subject"},
	Filters:       map[string]string{"status": "status", "user_id": "user_id"},
	Preloads:      []resource.Preload{{Relation: "User", WithTrashed: true}},
	SoftDelete:    true,
}

type CreateInput struct {
	UserID  *uint   `json:"user_id" validate:"required"`
	Subject *string `json:"subject" validate:"required,notblank,max=255"`
	Message *string `json:"message" validate:"required,notblank"`
	Status  *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
}

type UpdateInput struct {
	Subject *string `json:"subject" validate:"omitnil,notblank,max=255"`
	Message *string `json:"message" validate:"omitnil,notblank"`
	Status  *string `json:"status" validate:"omitnil,oneof=open in_progress resolved closed"`
}

type Service = resource.Service[models.SupportTicket, CreateInput, UpdateInput]

func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.SupportTicket, CreateInput, UpdateInput]{
		Build: func(ctx context.Context, tx *gorm.DB, in CreateInput) (*models.SupportTicket, error) {
			if err := resource.RequireExisting[models.User](ctx, tx, "user_id", *in.UserID); err != nil {
				return nil, err
			}
			t := &models.SupportTicket{
				UserID:  *in.UserID,
				Subject: strings.TrimSpace(*in.Subject),
				Message: *in.Message,
				Status:  enums.TicketStatusOpen,
			}
			if in.Status != nil && *in.Status != "" {
				t.Status = enums.TicketStatus(*in.Status)
			}
			return t, nil
		},
		Apply: func(_ context.Context, _ *gorm.DB, t *models.SupportTicket, in UpdateInput) error {
			if in.Subject != nil {
				t.Subject = strings.TrimSpace(*in.Subject)
			}
			resource.Set(&t.Message, in.Message)
			if in.Status != nil {
				t.Status = enums.TicketStatus(*in.Status)
			}
			return nil
		},
	})
}
