// Package storage persists uploaded files and maps stored paths to public URLs.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// publicPrefix is the served path segment that may precede a stored path.
const publicPrefix = "storage/"

// Store writes and removes files addressed by relative paths.
type Store interface {
	// Put writes r under dir/name and returns the relative path.
	Put(ctx context.Context, dir, name string, r io.Reader, contentType string) (string, error)
	// Delete removes the file at a relative path. Missing files are ignored.
	Delete(ctx context.Context, relPath string) error
	// URL resolves a relative path against the public base.
	URL(relPath string) string
}

// URLResolver is the read-only half of Store.
type URLResolver interface {
	URL(relPath string) string
}

// IsExternal reports whether value is an absolute http(s) URL.
func IsExternal(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Normalize maps a served path such as "/storage/banner/a.png" back to the
// stored relative path "banner/a.png".
func Normalize(value string) string {
	p := strings.TrimSpace(value)
	p = strings.TrimLeft(p, "/")
	p = strings.TrimPrefix(p, publicPrefix)
	return p
}

// ResolveURL passes absolute URLs through and resolves stored paths against
// the resolver's base. Empty values resolve to "".
func ResolveURL(r URLResolver, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case IsExternal(value):
		return value
	case r == nil:
		return "/" + publicPrefix + Normalize(value)
	default:
		return r.URL(Normalize(value))
	}
}

// Remove deletes every stored path, skipping blanks and external URLs, and
// returns the combined error.
func Remove(ctx context.Context, s Store, paths ...string) error {
	if s == nil {
		return nil
	}
	var errs error
	for _, p := range paths {
		if strings.TrimSpace(p) == "" || IsExternal(p) {
			continue
		}
		errs = multierr.Append(errs, s.Delete(ctx, Normalize(p)))
	}
	return errs
}

// NewFilename returns a random file name that keeps the original extension.
func NewFilename(original string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(original, "\\", "/")))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.NewString() + ext
}

func joinURL(base, relPath string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(relPath, "/")
}
