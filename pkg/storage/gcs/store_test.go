package gcs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront-admin/pkg/config"
	"google.golang.org/api/option"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeBucket) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/b/media/o"):
			_ = json.NewEncoder(w).Encode(map[string]any{"kind": "storage#objects"})
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/b/media/o"):
			name := r.URL.Query().Get("name")
			body, _ := io.ReadAll(r.Body)
			if name == "" {
				// multipart upload carries the name in the metadata part
				name = extractName(string(body))
			}
			f.objects[name] = string(body)
			_ = json.NewEncoder(w).Encode(map[string]any{"name": name, "bucket": "media"})
		case r.Method == http.MethodDelete:
			idx := strings.LastIndex(r.URL.Path, "/o/")
			name := r.URL.Path[idx+3:]
			if _, ok := f.objects[name]; !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":404,"message":"No such object"}}`))
				return
			}
			delete(f.objects, name)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func extractName(body string) string {
	idx := strings.Index(body, `"name":"`)
	if idx < 0 {
		return ""
	}
	rest := body[idx+len(`"name":"`):]
	return rest[:strings.Index(rest, `"`)]
}

func newTestStore(t *testing.T) (*Store, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string]string{}}
	srv := httptest.NewServer(bucket.handler(t))
	t.Cleanup(srv.Close)

	store, err := NewStore(context.Background(), config.StorageConfig{GCSBucket: "media"}, nil,
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, bucket
}

func TestNewStoreRequiresBucket(t *testing.T) {
	if _, err := NewStore(context.Background(), config.StorageConfig{}, nil); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestPutAndDelete(t *testing.T) {
	store, bucket := newTestStore(t)
	ctx := context.Background()

	rel, err := store.Put(ctx, "banner", "a.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rel != "banner/a.png" {
		t.Fatalf("unexpected object name %q", rel)
	}
	if _, ok := bucket.objects["banner/a.png"]; !ok {
		t.Fatalf("object not uploaded: %v", bucket.objects)
	}

	if err := store.Delete(ctx, "storage/banner/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("expected object removed, got %v", bucket.objects)
	}
	if err := store.Delete(ctx, "banner/a.png"); err != nil {
		t.Fatalf("deleting a missing object should be a no-op: %v", err)
	}
	if err := store.Delete(ctx, "https://cdn.x/a.png"); err != nil {
		t.Fatalf("external urls are never deleted: %v", err)
	}
}

func TestURL(t *testing.T) {
	store := &Store{bucket: "media", publicBase: defaultPublicBase}
	got := store.URL("banner/my file.png")
	want := "https://storage.googleapis.com/media/banner/my%20file.png"
	if got != want {
		t.Fatalf("URL() = %q, want %q", got, want)
	}
}
