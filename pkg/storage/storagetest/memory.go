// Package storagetest provides an in-memory file store for tests.
package storagetest

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps files in a map and records deletions.
type MemoryStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	// PutErr, when set, fails every Put.
	PutErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, dir, name string, r io.Reader, _ string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := path.Join(strings.Trim(dir, "/"), name)
	m.mu.Lock()
	m.files[p] = data
	m.mu.Unlock()
	return p, nil
}

func (m *MemoryStore) Delete(_ context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, relPath)
	m.deleted = append(m.deleted, relPath)
	return nil
}

func (m *MemoryStore) URL(relPath string) string {
	return "http://files.test/storage/" + strings.TrimLeft(relPath, "/")
}

// Has reports whether a file is stored at p.
func (m *MemoryStore) Has(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok
}

// Paths lists stored paths in order.
func (m *MemoryStore) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Deleted lists every path passed to Delete.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Seed stores data at p directly.
func (m *MemoryStore) Seed(p string, data []byte) {
	m.mu.Lock()
	m.files[p] = data
	m.mu.Unlock()
}
