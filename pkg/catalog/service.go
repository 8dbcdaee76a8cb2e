package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service is the storage-facing API of the catalog admin console. It
// orchestrates the document store and the blob store so that callers never
// talk to either directly.
//
// Mutations against the same item id are serialized within one Service
// instance. Across instances (two operator sessions, two processes) there
// is no coordination; updates are last-write-wins.
type Service interface {
	// CreateItem uploads the asset first and only then writes the metadata
	// record. An upload failure aborts the operation before any record is
	// written. If the metadata write fails after a successful upload the
	// asset is orphaned; no compensating delete is attempted.
	CreateItem(ctx context.Context, req CreateItemRequest) (*CatalogItem, error)

	// GetItem returns the item or ErrItemNotFound.
	GetItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)

	// UpdateItem merges the non-nil fields of req into the stored record
	// and refreshes UpdatedAt.
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*CatalogItem, error)

	// DeleteItem reads the record, best-effort deletes its asset, then
	// deletes the metadata record. An asset-delete failure is logged and
	// does not abort the operation: list accuracy wins over asset cleanup.
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// ListItems fetches one page ordered by created_at descending. A nil
	// cursor means first page. Prefer a Pager for session-scoped listing.
	ListItems(ctx context.Context, cursor *Cursor, pageSize int) (*Page, error)

	// CountItems returns the total number of item records.
	CountItems(ctx context.Context) (int64, error)

	// UploadAsset validates and stores a binary asset, returning its public
	// URL. Non-image content types are rejected with ErrInvalidInput before
	// any store call.
	UploadAsset(ctx context.Context, req UploadAssetRequest) (string, error)

	// DeleteAsset removes an asset identified by key or URL.
	DeleteAsset(ctx context.Context, req DeleteAssetRequest) error
}
