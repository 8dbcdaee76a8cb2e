package catalog

import (
	"io"

	"github.com/google/uuid"
)

// AssetUpload carries the binary asset supplied with a create or replace.
type AssetUpload struct {
	Data        io.Reader
	ContentType string
	FileName    string
}

// CreateItemRequest contains the fields for creating a catalog item.
// Asset is required: the current policy rejects item records without an
// image, matching the admin UI which refuses submission without one.
type CreateItemRequest struct {
	Name        string
	Category    string
	Price       float64
	Weight      float64
	Available   bool
	Description string
	Asset       *AssetUpload
}

// UpdateItemRequest contains a partial update for a catalog item. Nil
// fields are left untouched; AssetURL changes only when explicitly set.
// Updates are last-write-wins: there is no optimistic concurrency token.
type UpdateItemRequest struct {
	ID          uuid.UUID
	Name        *string
	Category    *string
	Price       *float64
	Weight      *float64
	Available   *bool
	Description *string
	AssetURL    *string
}

// UploadAssetRequest contains the parameters for a standalone asset upload.
type UploadAssetRequest struct {
	Data        io.Reader
	ContentType string
	FileName    string
}

// DeleteAssetRequest identifies an asset to remove, either by its storage
// key or by its public URL. When only the URL is given the key is derived
// from its last path segment.
type DeleteAssetRequest struct {
	URL string
	Key string
}
