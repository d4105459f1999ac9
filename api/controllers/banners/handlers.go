// Package banners adapts the generic admin handlers to banner forms, which
// arrive either as JSON or as multipart bodies carrying image files.
package banners

import (
	"github.com/angelmondragon/storefront-admin/api/controllers/resource"
	bannersvc "github.com/angelmondragon/storefront-admin/internal/banners"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

type Handlers = resource.Handlers[models.Banner, bannersvc.CreateInput, bannersvc.UpdateInput]

// New builds the banner handlers. maxUploadBytes bounds each image file.
func New(svc bannersvc.Service, files storage.URLResolver, maxUploadBytes int64, logg *logger.Logger) *Handlers {
	return resource.New(svc, bannersvc.Present(files), logg,
		resource.WithCreateDecoder[models.Banner, bannersvc.CreateInput, bannersvc.UpdateInput](decodeCreate(maxUploadBytes)),
		resource.WithUpdateDecoder[models.Banner, bannersvc.CreateInput, bannersvc.UpdateInput](decodeUpdate(maxUploadBytes)),
	)
}
