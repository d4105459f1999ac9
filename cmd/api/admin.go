package main

import (
	bannercontrollers "github.com/angelmondragon/storefront-admin/api/controllers/banners"
	rc "github.com/angelmondragon/storefront-admin/api/controllers/resource"
	"github.com/angelmondragon/storefront-admin/api/routes"
	"github.com/angelmondragon/storefront-admin/internal/address"
	"github.com/angelmondragon/storefront-admin/internal/attributes"
	"github.com/angelmondragon/storefront-admin/internal/banners"
	"github.com/angelmondragon/storefront-admin/internal/cart"
	"github.com/angelmondragon/storefront-admin/internal/categories"
	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/internal/supporttickets"
	"github.com/angelmondragon/storefront-admin/internal/users"
	"github.com/angelmondragon/storefront-admin/internal/wishlist"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// buildAdmin constructs every admin resource service and its handlers. The
// product service is returned as well since the storefront lists through it.
func buildAdmin(deps resource.Deps, hasher users.PasswordHasher, files storage.URLResolver, maxUpload int64, logg *logger.Logger) (routes.AdminResources, product.Service, error) {
	var out routes.AdminResources

	bannerSvc, err := banners.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	userSvc, err := users.NewService(deps, hasher)
	if err != nil {
		return out, nil, err
	}
	productSvc, err := product.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	categorySvc, err := categories.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	attributeSvc, err := attributes.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	variantSvc, err := product.NewVariantService(deps)
	if err != nil {
		return out, nil, err
	}
	reviewSvc, err := product.NewReviewService(deps)
	if err != nil {
		return out, nil, err
	}
	ticketSvc, err := supporttickets.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	wishlistSvc, err := wishlist.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	cartSvc, err := cart.NewService(deps)
	if err != nil {
		return out, nil, err
	}
	addressSvc, err := address.NewService(deps)
	if err != nil {
		return out, nil, err
	}

	out = routes.AdminResources{
		Banners:        bannercontrollers.New(bannerSvc, files, maxUpload, logg),
		Users:          rc.New(userSvc, users.Present, logg),
		Products:       rc.New(productSvc, product.Present(files), logg),
		Categories:     rc.New(categorySvc, categories.Present(files), logg),
		Attributes:     rc.New(attributeSvc, nil, logg),
		Variants:       rc.New(variantSvc, product.PresentVariant(files), logg),
		Reviews:        rc.New(reviewSvc, nil, logg),
		SupportTickets: rc.New(ticketSvc, nil, logg),
		Wishlists:      rc.New(wishlistSvc, nil, logg),
		Cart:           rc.New(cartSvc, nil, logg),
		AddressBook:    rc.New(addressSvc, nil, logg),
	}
	return out, productSvc, nil
}
