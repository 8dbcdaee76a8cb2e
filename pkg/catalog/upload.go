package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// UploadAsset validates the declared content type, generates a
// collision-free storage key and writes the blob with public-read
// visibility. The returned URL is computed from the backend's configured
// base; it is only returned once the store has confirmed the write, so a
// caller never references a URL that was never written.
func (s *service) UploadAsset(ctx context.Context, req UploadAssetRequest) (string, error) {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return "", fmt.Errorf("%w: content type %q is not an image", ErrInvalidInput, req.ContentType)
	}
	if req.Data == nil {
		return "", fmt.Errorf("%w: no file data", ErrInvalidInput)
	}

	store, err := s.blobStore()
	if err != nil {
		return "", err
	}

	// Key is independent of the original filename: concurrent uploads of
	// identically named files never collide.
	key := s.keys.GenerateKey(req.FileName)

	if err := store.Upload(ctx, key, req.ContentType, req.Data); err != nil {
		return "", &StorageError{
			Backend: s.defaultBackend,
			Key:     key,
			Op:      "upload",
			Err:     fmt.Errorf("%w: %v", ErrUploadFailed, err),
		}
	}

	return store.PublicURL(key), nil
}

// DeleteAsset removes a stored asset. When no explicit key is given the
// key is derived from the URL's last path segment. That heuristic breaks
// if the public URL base ever gains path segments beyond the key; keys
// should be stored explicitly where that matters.
func (s *service) DeleteAsset(ctx context.Context, req DeleteAssetRequest) error {
	key := req.Key
	if key == "" && req.URL != "" {
		k, err := ObjectKeyFromURL(req.URL)
		if err != nil {
			return err
		}
		key = k
	}
	if key == "" {
		return fmt.Errorf("%w: url or key is required", ErrInvalidInput)
	}

	store, err := s.blobStore()
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, key); err != nil {
		return &StorageError{Backend: s.defaultBackend, Key: key, Op: "delete", Err: err}
	}
	return nil
}

// ObjectKeyFromURL derives a storage key from a public asset URL by taking
// the last path segment.
func ObjectKeyFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url format", ErrInvalidInput)
	}
	segments := strings.Split(u.Path, "/")
	key := segments[len(segments)-1]
	if key == "" {
		return "", fmt.Errorf("%w: could not determine object key from url", ErrInvalidInput)
	}
	return key, nil
}

// JoinURL joins a base URL and an object key with exactly one slash,
// regardless of trailing slashes in the configured base.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
