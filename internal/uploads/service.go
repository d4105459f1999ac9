package uploads

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// DefaultFolder receives uploads that name no folder.
const DefaultFolder = "uploads"

// Stored describes a file written to the store.
type Stored struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Service stores and removes loose image files.
type Service interface {
	Upload(ctx context.Context, folder string, u storage.Upload) (*Stored, error)
	UploadMany(ctx context.Context, folder string, files []storage.Upload) ([]Stored, error)
	Delete(ctx context.Context, path string) error
}

type service struct {
	files storage.Store
}

// NewService validates dependencies for the upload service.
func NewService(files storage.Store) (Service, error) {
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	return &service{files: files}, nil
}

func (s *service) Upload(ctx context.Context, folder string, u storage.Upload) (*Stored, error) {
	path, err := storage.Save(ctx, s.files, folderOrDefault(folder), u)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}
	return &Stored{Path: path, URL: s.files.URL(path)}, nil
}

// UploadMany stores every file or none: a failure removes the files already
// written by the call.
func (s *service) UploadMany(ctx context.Context, folder string, files []storage.Upload) ([]Stored, error) {
	if len(files) == 0 {
		return nil, pkgerrors.Invalid(map[string]string{"files": "is required"})
	}
	out := make([]Stored, 0, len(files))
	for _, u := range files {
		stored, err := s.Upload(ctx, folder, u)
		if err != nil {
			paths := make([]string, 0, len(out))
			for _, o := range out {
				paths = append(paths, o.Path)
			}
			_ = storage.Remove(context.WithoutCancel(ctx), s.files, paths...)
			return nil, err
		}
		out = append(out, *stored)
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, path string) error {
	p := strings.TrimSpace(path)
	switch {
	case p == "":
		return pkgerrors.Invalid(map[string]string{"path": "is required"})
	case storage.IsExternal(p):
		return pkgerrors.Invalid(map[string]string{"path": "must be a stored file path"})
	}
	p = storage.Normalize(p)
	if p == "" || strings.Contains(p, "..") {
		return pkgerrors.Invalid(map[string]string{"path": "must be a stored file path"})
	}
	if err := s.files.Delete(ctx, p); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete upload")
	}
	return nil
}

func folderOrDefault(folder string) string {
	if f := strings.TrimSpace(folder); f != "" {
		return f
	}
	return DefaultFolder
}
