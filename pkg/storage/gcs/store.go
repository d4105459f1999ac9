// Package gcs stores uploads in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcsapi "google.golang.org/api/storage/v1"
)

const (
	pingTimeout       = 5 * time.Second
	defaultPublicBase = "https://storage.googleapis.com"
)

// Store implements storage.Store on top of the JSON API.
type Store struct {
	svc        *gcsapi.Service
	bucket     string
	publicBase string
}

var _ storage.Store = (*Store)(nil)

// NewStore builds a bucket-backed store. Credentials come from the storage
// config unless extra client options override them.
func NewStore(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger, opts ...option.ClientOption) (*Store, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	clientOpts := credentialOptions(cfg)
	clientOpts = append(clientOpts, option.WithScopes(gcsapi.DevstorageReadWriteScope))
	clientOpts = append(clientOpts, opts...)

	svc, err := gcsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs service: %w", err)
	}

	store := &Store{svc: svc, bucket: cfg.GCSBucket, publicBase: defaultPublicBase}
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.GCSBucket), "gcs store initialized")
	}
	return store, nil
}

func credentialOptions(cfg config.StorageConfig) []option.ClientOption {
	switch {
	case cfg.GCPCredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.GCPCredentialsJSON))}
	case cfg.ApplicationCredentials != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.ApplicationCredentials)}
	default:
		return nil
	}
}

// Ping lists at most one object to prove bucket access.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := s.svc.Objects.List(s.bucket).MaxResults(1).Context(ctx).Do()
	return err
}

func (s *Store) Put(ctx context.Context, dir, name string, r io.Reader, contentType string) (string, error) {
	objectName := path.Join(strings.Trim(dir, "/"), name)
	obj := &gcsapi.Object{Name: objectName, ContentType: contentType}

	call := s.svc.Objects.Insert(s.bucket, obj).Context(ctx)
	if contentType != "" {
		call = call.Media(r, googleapi.ContentType(contentType))
	} else {
		call = call.Media(r)
	}
	if _, err := call.Do(); err != nil {
		return "", fmt.Errorf("uploading %s: %w", objectName, err)
	}
	return objectName, nil
}

func (s *Store) Delete(ctx context.Context, relPath string) error {
	if storage.IsExternal(relPath) {
		return nil
	}
	objectName := storage.Normalize(relPath)
	if objectName == "" {
		return nil
	}
	err := s.svc.Objects.Delete(s.bucket, objectName).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", objectName, err)
	}
	return nil
}

func (s *Store) URL(relPath string) string {
	segments := strings.Split(strings.TrimLeft(relPath, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, strings.Join(segments, "/"))
}
