package resource

import (
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// Deps are the collaborators every entity service is built from.
type Deps struct {
	DB         Transactor
	Pagination config.PaginationConfig
	Files      storage.Store
	Logger     *logger.Logger
}

// Build wires desc and hooks into a service using the shared deps.
func Build[M, C, U any](deps Deps, desc Descriptor, hooks Hooks[M, C, U]) (Service[M, C, U], error) {
	return NewService(Params[M, C, U]{
		DB:             deps.DB,
		Descriptor:     desc,
		Hooks:          hooks,
		DefaultPerPage: deps.Pagination.DefaultPerPage,
		MaxPerPage:     deps.Pagination.MaxPerPage,
		Files:          deps.Files,
		Logger:         deps.Logger,
	})
}
