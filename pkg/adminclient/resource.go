package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Resource is an untyped handle on one admin resource, e.g.
// c.Resource("categories").
type Resource struct {
	c         *Client
	prefix    string
	forcePath string
}

// ResourceOption tunes a Resource.
type ResourceOption func(*Resource)

// WithForcePath sets the permanent delete suffix, "force-delete" by default.
func WithForcePath(path string) ResourceOption {
	return func(r *Resource) {
		if p := strings.Trim(path, "/"); p != "" {
			r.forcePath = p
		}
	}
}

func (c *Client) Resource(prefix string, opts ...ResourceOption) *Resource {
	r := &Resource{c: c, prefix: strings.Trim(prefix, "/"), forcePath: "force-delete"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resource) path(parts ...any) string {
	p := "/api/admin/" + r.prefix
	for _, part := range parts {
		p += "/" + fmt.Sprint(part)
	}
	return p
}

func (r *Resource) List(ctx context.Context, opts ListOptions) ([]json.RawMessage, Meta, error) {
	var env pageEnvelope[json.RawMessage]
	err := r.c.do(ctx, request{method: http.MethodGet, path: r.path(), query: listQuery(opts)}, &env)
	return env.Data, env.Meta, err
}

func (r *Resource) Get(ctx context.Context, id uint) (json.RawMessage, error) {
	var env dataEnvelope[json.RawMessage]
	err := r.c.do(ctx, request{method: http.MethodGet, path: r.path(id)}, &env)
	return env.Data, err
}

func (r *Resource) Create(ctx context.Context, payload any) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPost, r.path(), payload)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[json.RawMessage]
	err = r.c.do(ctx, req, &env)
	return env.Data, err
}

func (r *Resource) Update(ctx context.Context, id uint, payload any) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPut, r.path(id), payload)
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[json.RawMessage]
	err = r.c.do(ctx, req, &env)
	return env.Data, err
}

// Delete soft deletes where the resource supports it.
func (r *Resource) Delete(ctx context.Context, id uint) (string, error) {
	return r.message(ctx, http.MethodDelete, r.path(id))
}

// Trash lists every soft deleted record.
func (r *Resource) Trash(ctx context.Context) ([]json.RawMessage, error) {
	var env dataEnvelope[[]json.RawMessage]
	err := r.c.do(ctx, request{method: http.MethodGet, path: r.path("trash")}, &env)
	return env.Data, err
}

func (r *Resource) Restore(ctx context.Context, id uint) (string, error) {
	return r.message(ctx, http.MethodPost, r.path(id, "restore"))
}

func (r *Resource) ForceDelete(ctx context.Context, id uint) (string, error) {
	return r.message(ctx, http.MethodDelete, r.path(id, r.forcePath))
}

func (r *Resource) message(ctx context.Context, method, path string) (string, error) {
	var env struct {
		Message string `json:"message"`
	}
	err := r.c.do(ctx, request{method: method, path: path}, &env)
	return env.Message, err
}
