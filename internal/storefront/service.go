package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-admin/internal/categories"
	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"gorm.io/gorm"
)

// LatestProducts is how many products the home payload carries.
const LatestProducts = 20

// Home is the public landing payload.
type Home struct {
	Categories []categories.DTO     `json:"categories"`
	Products   []product.ProductDTO `json:"products"`
}

type Service interface {
	Home(ctx context.Context) (*Home, error)
	Products(ctx context.Context, q resource.Query) (resource.Page[models.Product], error)
}

type service struct {
	db       *gorm.DB
	products product.Service
	files    storage.URLResolver
}

// NewService builds the public catalog reader. Product listing reuses the
// admin product service so filters and shape stay identical.
func NewService(db *gorm.DB, products product.Service, files storage.URLResolver) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product service is required")
	}
	return &service{db: db, products: products, files: files}, nil
}

func (s *service) Home(ctx context.Context) (*Home, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	var items []models.Product
	err := s.db.WithContext(ctx).
		Preload("Category", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_variants.id ASC") }).
		Order("created_at DESC, id DESC").
		Limit(LatestProducts).
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	home := &Home{
		Categories: make([]categories.DTO, 0, len(cats)),
		Products:   make([]product.ProductDTO, 0, len(items)),
	}
	for i := range cats {
		home.Categories = append(home.Categories, categories.ToDTO(s.files, &cats[i]))
	}
	for i := range items {
		home.Products = append(home.Products, product.ToDTO(s.files, &items[i]))
	}
	return home, nil
}

func (s *service) Products(ctx context.Context, q resource.Query) (resource.Page[models.Product], error) {
	return s.products.Index(ctx, q)
}
