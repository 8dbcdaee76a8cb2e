// Package fs provides a filesystem-backed catalog.BlobStore. Assets land
// under a base directory and are expected to be served publicly by a web
// server pointed at it.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir       string // Base directory for storing files
	PublicBaseURL string // Base URL under which BaseDir is served
}

// Backend is a filesystem implementation of the catalog.BlobStore interface
type Backend struct {
	baseDir       string
	publicBaseURL string
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.PublicBaseURL == "" {
		return nil, errors.New("public base URL is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:       config.BaseDir,
		publicBaseURL: config.PublicBaseURL,
	}, nil
}

func (b *Backend) path(objectKey string) (string, error) {
	// Keys are generated internally, but reject traversal anyway.
	clean := filepath.Clean(filepath.FromSlash(objectKey))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key: %s", objectKey)
	}
	return filepath.Join(b.baseDir, clean), nil
}

// Upload writes the blob to the filesystem
func (b *Backend) Upload(ctx context.Context, objectKey, contentType string, reader io.Reader) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes the blob from the filesystem
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return catalog.ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for objectKey
func (b *Backend) PublicURL(objectKey string) string {
	return catalog.JoinURL(b.publicBaseURL, objectKey)
}
