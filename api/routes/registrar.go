package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DefaultForcePath is the suffix of the permanent delete route.
const DefaultForcePath = "force-delete"

// ResourceHandlers is the handler set of one admin resource.
type ResourceHandlers interface {
	Index(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
	Trash(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	ForceDelete(w http.ResponseWriter, r *http.Request)
	SoftDelete() bool
}

type resourceOptions struct {
	forcePath string
}

// ResourceOption tunes AdminResource.
type ResourceOption func(*resourceOptions)

// WithForcePath replaces the force-delete suffix, e.g. "force" for banners.
func WithForcePath(path string) ResourceOption {
	return func(o *resourceOptions) {
		if p := strings.Trim(path, "/"); p != "" {
			o.forcePath = p
		}
	}
}

// AdminResource mounts the uniform admin route set of h under prefix. The
// trash listing is registered before /{id} so "trash" is never read as an
// id; resources without soft delete get neither trash nor restore.
func AdminResource(r chi.Router, prefix string, h ResourceHandlers, opts ...ResourceOption) {
	o := resourceOptions{forcePath: DefaultForcePath}
	for _, opt := range opts {
		opt(&o)
	}
	r.Route("/"+strings.Trim(prefix, "/"), func(r chi.Router) {
		soft := h.SoftDelete()
		if soft {
			r.Get("/trash", h.Trash)
		}
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Destroy)
		if soft {
			r.Post("/{id}/restore", h.Restore)
		}
		r.Delete("/{id}/"+o.forcePath, h.ForceDelete)
	})
}
