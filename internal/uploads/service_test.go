package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"github.com/angelmondragon/storefront-admin/pkg/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func png(name string) storage.Upload {
	return storage.BytesUpload(name, "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
}

func TestNewServiceRequiresStore(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error without a store")
	}
}

func TestUploadDefaultsFolder(t *testing.T) {
	files := storagetest.NewMemoryStore()
	svc, err := NewService(files)
	require.NoError(t, err)

	stored, err := svc.Upload(context.Background(), "", png("a.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "uploads/"), stored.Path)
	assert.Equal(t, "http://files.test/storage/"+stored.Path, stored.URL)
	assert.True(t, files.Has(stored.Path))

	custom, err := svc.Upload(context.Background(), "category", png("b.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(custom.Path, "category/"), custom.Path)
}

func TestUploadManyIsAllOrNothing(t *testing.T) {
	files := storagetest.NewMemoryStore()
	svc, err := NewService(files)
	require.NoError(t, err)

	broken := storage.Upload{Filename: "x.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }}
	_, err = svc.UploadMany(context.Background(), "", []storage.Upload{png("a.png"), broken})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Empty(t, files.Paths())
	assert.Len(t, files.Deleted(), 1)

	stored, err := svc.UploadMany(context.Background(), "", []storage.Upload{png("a.png"), png("b.png")})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = svc.UploadMany(context.Background(), "", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteNormalizesAndRejectsForeignPaths(t *testing.T) {
	files := storagetest.NewMemoryStore()
	files.Seed("uploads/a.png", []byte("x"))
	svc, err := NewService(files)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "/storage/uploads/a.png"))
	assert.False(t, files.Has("uploads/a.png"))

	for _, p := range []string{"", "https://cdn.test/a.png", "../etc/passwd", "/storage/"} {
		err := svc.Delete(context.Background(), p)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "path %q: %v", p, err)
	}
}
