package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Upload is a validated file waiting to be stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Save writes u under dir with a fresh random name and returns the stored
// relative path.
func Save(ctx context.Context, s Store, dir string, u Upload) (string, error) {
	if s == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if u.Open == nil {
		return "", fmt.Errorf("upload %q has no content", u.Filename)
	}
	rc, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	return s.Put(ctx, dir, NewFilename(u.Filename), rc, u.ContentType)
}

// Recorder receives one call per store operation.
type Recorder interface {
	Record(op string, err error)
}

type instrumented struct {
	Store
	rec Recorder
}

// Instrument reports every Put and Delete on s to rec.
func Instrument(s Store, rec Recorder) Store {
	if rec == nil {
		return s
	}
	return &instrumented{Store: s, rec: rec}
}

func (i *instrumented) Put(ctx context.Context, dir, name string, r io.Reader, contentType string) (string, error) {
	p, err := i.Store.Put(ctx, dir, name, r, contentType)
	i.rec.Record("put", err)
	return p, err
}

func (i *instrumented) Delete(ctx context.Context, relPath string) error {
	err := i.Store.Delete(ctx, relPath)
	i.rec.Record("delete", err)
	return err
}

// BytesUpload wraps in-memory content as an upload.
func BytesUpload(filename, contentType string, data []byte) Upload {
	return Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
