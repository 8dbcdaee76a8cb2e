package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrItemNotFound indicates a catalog item was not found
	ErrItemNotFound = errors.New("catalog item not found")

	// ErrSettingsNotFound indicates a settings record was not found
	ErrSettingsNotFound = errors.New("settings record not found")

	// ErrAssetNotFound indicates a stored asset was not found
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidInput indicates bad caller input; the operation had no side effects
	ErrInvalidInput = errors.New("invalid input")

	// ErrUploadFailed indicates an asset upload failed before any metadata was written
	ErrUploadFailed = errors.New("upload failed")

	// ErrIndexMissing indicates the document store cannot satisfy the requested
	// ordering. Operator-actionable: the backing table or index must be provisioned.
	ErrIndexMissing = errors.New("ordering index missing")

	// ErrNotAuthorized indicates the store rejected the caller's credentials
	ErrNotAuthorized = errors.New("not authorized")
)

// ItemError represents an error from a catalog item operation
type ItemError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from a blob storage operation
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError represents a network or availability failure talking to a
// store. The operation is safe to retry unchanged; no retries are performed
// here.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable transport failure.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
