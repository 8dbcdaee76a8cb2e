// Package memory provides an in-memory catalog.BlobStore for tests and
// dependency-free local runs.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// Backend is an in-memory implementation of the catalog.BlobStore interface
type Backend struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	contentType map[string]string
	baseURL     string
}

// Option configures the in-memory backend.
type Option func(*Backend)

// WithBaseURL sets the base used by PublicURL. Defaults to "memory://objects".
func WithBaseURL(base string) Option {
	return func(b *Backend) {
		b.baseURL = base
	}
}

// New creates a new in-memory storage backend
func New(opts ...Option) *Backend {
	b := &Backend{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		baseURL:     "memory://objects",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Upload stores the blob under objectKey
func (b *Backend) Upload(ctx context.Context, objectKey, contentType string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentType[objectKey] = contentType
	return nil
}

// Delete removes the blob
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return catalog.ErrAssetNotFound
	}
	delete(b.objects, objectKey)
	delete(b.contentType, objectKey)
	return nil
}

// PublicURL returns the public URL for objectKey
func (b *Backend) PublicURL(objectKey string) string {
	return catalog.JoinURL(b.baseURL, objectKey)
}

// Get returns the stored blob and its content type. Test helper.
func (b *Backend) Get(objectKey string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, "", false
	}
	return data, b.contentType[objectKey], true
}

// Len returns the number of stored blobs. Test helper.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
