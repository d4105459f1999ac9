package dashboard

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Stats are the headline counters of the admin home page.
type Stats struct {
	Users         int64 `json:"users"`
	Products      int64 `json:"products"`
	Categories    int64 `json:"categories"`
	ActiveBanners int64 `json:"active_banners"`
	Carts         int64 `json:"carts"`
	Wishlists     int64 `json:"wishlists"`
	OpenTickets   int64 `json:"open_support_tickets"`
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &service{db: db}, nil
}

// Stats runs every count concurrently; the first failure cancels the rest.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, model any, scope func(*gorm.DB) *gorm.DB) {
		g.Go(func() error {
			q := s.db.WithContext(gctx).Model(model)
			if scope != nil {
				q = scope(q)
			}
			return q.Count(dst).Error
		})
	}

	count(&out.Users, &models.User{}, nil)
	count(&out.Products, &models.Product{}, nil)
	count(&out.Categories, &models.Category{}, nil)
	count(&out.ActiveBanners, &models.Banner{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ?", true)
	})
	count(&out.Carts, &models.Cart{}, nil)
	count(&out.Wishlists, &models.Wishlist{}, nil)
	count(&out.OpenTickets, &models.SupportTicket{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", enums.TicketStatusOpen)
	})

	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count dashboard stats")
	}
	return &out, nil
}
