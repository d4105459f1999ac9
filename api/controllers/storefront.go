package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// StorefrontHome serves the public landing payload.
func StorefrontHome(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// StorefrontProducts pages the public catalog by keyword and category.
func StorefrontProducts(svc storefront.Service, files storage.URLResolver, logg *logger.Logger) http.HandlerFunc {
	present := product.Present(files)
	return func(w http.ResponseWriter, r *http.Request) {
		q := resource.Query{
			Page:    validators.PageQuery(r),
			Keyword: strings.TrimSpace(r.URL.Query().Get("keyword")),
			Filters: map[string]string{},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			if _, ok := validators.ParseID(raw); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid(map[string]string{"category_id": "must be an integer"}))
				return
			}
			q.Filters["category_id"] = raw
		}

		page, err := svc.Products(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]any, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, present(&page.Items[i]))
		}
		responses.WritePage(w, items, page.Meta)
	}
}
