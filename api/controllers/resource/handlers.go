// Package resource serves the uniform admin routes of one resource service.
package resource

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	resourcesvc "github.com/angelmondragon/storefront-admin/internal/resource"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Decoder turns a request body into a service input.
type Decoder[T any] func(w http.ResponseWriter, r *http.Request) (T, error)

// JSONDecoder decodes and validates a JSON body.
func JSONDecoder[T any]() Decoder[T] {
	return func(_ http.ResponseWriter, r *http.Request) (T, error) {
		var in T
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			return in, err
		}
		return in, nil
	}
}

// Handlers exposes the eight admin operations of a service as HTTP handlers.
type Handlers[M, C, U any] struct {
	svc          resourcesvc.Service[M, C, U]
	present      func(*M) any
	decodeCreate Decoder[C]
	decodeUpdate Decoder[U]
	logg         *logger.Logger
}

// Option customizes Handlers.
type Option[M, C, U any] func(*Handlers[M, C, U])

// WithCreateDecoder replaces the JSON decoder used by Store.
func WithCreateDecoder[M, C, U any](d Decoder[C]) Option[M, C, U] {
	return func(h *Handlers[M, C, U]) { h.decodeCreate = d }
}

// WithUpdateDecoder replaces the JSON decoder used by Update.
func WithUpdateDecoder[M, C, U any](d Decoder[U]) Option[M, C, U] {
	return func(h *Handlers[M, C, U]) { h.decodeUpdate = d }
}

// New binds svc to HTTP. present serializes one record; nil writes the
// model as is.
func New[M, C, U any](svc resourcesvc.Service[M, C, U], present func(*M) any, logg *logger.Logger, opts ...Option[M, C, U]) *Handlers[M, C, U] {
	if present == nil {
		present = func(m *M) any { return m }
	}
	h := &Handlers[M, C, U]{
		svc:          svc,
		present:      present,
		decodeCreate: JSONDecoder[C](),
		decodeUpdate: JSONDecoder[U](),
		logg:         logg,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SoftDelete reports whether trash and restore routes apply.
func (h *Handlers[M, C, U]) SoftDelete() bool {
	return h.svc.Descriptor().SoftDelete
}

func (h *Handlers[M, C, U]) name() string {
	return h.svc.Descriptor().Name
}

func (h *Handlers[M, C, U]) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if h.logg != nil {
		ctx = h.logg.WithResource(ctx, h.name())
	}
	responses.WriteError(ctx, h.logg, w, err)
}

func (h *Handlers[M, C, U]) presentAll(items []M) []any {
	out := make([]any, 0, len(items))
	for i := range items {
		out = append(out, h.present(&items[i]))
	}
	return out
}

// id reads the {id} URL param. Anything but a positive integer is a miss.
func (h *Handlers[M, C, U]) id(w http.ResponseWriter, r *http.Request, notFound string) (uint, bool) {
	id, ok := validators.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, pkgerrors.New(pkgerrors.CodeNotFound, notFound))
	}
	return id, ok
}

func (h *Handlers[M, C, U]) Index(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.svc.Index(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WritePage(w, h.presentAll(page.Items), page.Meta)
}

// query collects keyword, paging and the descriptor's equality filters.
// Id filters must be integers; is_* filters accept the form booleans.
func (h *Handlers[M, C, U]) query(r *http.Request) (resourcesvc.Query, error) {
	values := r.URL.Query()
	q := resourcesvc.Query{
		Page:    validators.PageQuery(r),
		Keyword: strings.TrimSpace(values.Get("keyword")),
		Filters: map[string]string{},
	}
	invalid := map[string]string{}
	for param := range h.svc.Descriptor().Filters {
		raw := strings.TrimSpace(values.Get(param))
		if raw == "" {
			continue
		}
		switch {
		case strings.HasSuffix(param, "_id"):
			if _, ok := validators.ParseID(raw); !ok {
				invalid[param] = "must be an integer"
				continue
			}
		case strings.HasPrefix(param, "is_"):
			b, ok := validators.ParseBool(raw)
			if !ok {
				invalid[param] = "must be true or false"
				continue
			}
			raw = "0"
			if b {
				raw = "1"
			}
		}
		q.Filters[param] = raw
	}
	if len(invalid) > 0 {
		return q, pkgerrors.Invalid(invalid)
	}
	return q, nil
}

func (h *Handlers[M, C, U]) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, h.name()+" not found")
	if !ok {
		return
	}
	m, err := h.svc.Show(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteSuccess(w, h.present(m))
}

func (h *Handlers[M, C, U]) Store(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeCreate(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.svc.Store(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, h.present(m))
}

func (h *Handlers[M, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, h.name()+" not found")
	if !ok {
		return
	}
	in, err := h.decodeUpdate(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteSuccess(w, h.present(m))
}

func (h *Handlers[M, C, U]) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, h.name()+" not found")
	if !ok {
		return
	}
	if err := h.svc.Destroy(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteMessage(w, h.name()+" deleted")
}

func (h *Handlers[M, C, U]) Trash(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Trash(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteSuccess(w, h.presentAll(items))
}

func (h *Handlers[M, C, U]) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, h.name()+" not found in trash")
	if !ok {
		return
	}
	if err := h.svc.Restore(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteMessage(w, h.name()+" restored")
}

func (h *Handlers[M, C, U]) ForceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, h.name()+" not found")
	if !ok {
		return
	}
	if err := h.svc.ForceDelete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	responses.WriteMessage(w, h.name()+" permanently deleted")
}
