package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for object storage backends. Objects are
// written with public-read visibility; PublicURL must be derivable from
// configuration alone, without a store round trip.
type BlobStore interface {
	// Upload writes the blob under objectKey with the given content type.
	Upload(ctx context.Context, objectKey, contentType string, reader io.Reader) error

	// Delete removes the blob. Deleting a key that does not exist returns
	// ErrAssetNotFound.
	Delete(ctx context.Context, objectKey string) error

	// PublicURL returns the public URL for objectKey: the configured base
	// joined with the key by exactly one slash.
	PublicURL(objectKey string) string
}

// ItemQuery describes an ordered, limited, cursor-resumable query over
// catalog items. Ordering is always created_at descending with id
// descending as tie-break.
type ItemQuery struct {
	// After resumes the query strictly after the given sort key. Nil means
	// first page.
	After *Cursor

	// Limit caps the number of returned items. Must be positive.
	Limit int
}

// DocumentStore defines the interface for catalog item and settings
// persistence. Implementations classify their failures: ErrItemNotFound /
// ErrSettingsNotFound for absent ids, ErrIndexMissing when the ordered
// query cannot be satisfied, *TransportError for availability problems.
type DocumentStore interface {
	// Item operations
	CreateItem(ctx context.Context, item *CatalogItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	UpdateItem(ctx context.Context, item *CatalogItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	QueryItems(ctx context.Context, q ItemQuery) ([]*CatalogItem, error)
	CountItems(ctx context.Context) (int64, error)

	// Settings operations
	CreateSettings(ctx context.Context, rec *SettingsRecord) error
	GetSettings(ctx context.Context, collection string, id uuid.UUID) (*SettingsRecord, error)
	UpdateSettings(ctx context.Context, rec *SettingsRecord) error
	// PutSettings creates or replaces the record at its (collection, id),
	// preserving CreatedAt when the record already exists.
	PutSettings(ctx context.Context, rec *SettingsRecord) error
	// FirstSettings returns any one record from the collection, or
	// ErrSettingsNotFound when the collection is empty.
	FirstSettings(ctx context.Context, collection string) (*SettingsRecord, error)
}
