package catalog

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CatalogItem is a sellable item in the admin catalog. AssetURL points at
// the item's image in the object store; it may be empty for records whose
// asset has been removed out of band.
//
// CreatedAt is immutable after creation and is the sort key for listing.
// UpdatedAt is refreshed on every mutation.
type CatalogItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Weight      float64   `json:"weight"`
	Available   bool      `json:"available"`
	AssetURL    string    `json:"asset_url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SettingsRecord is a schemaless configuration document in a named
// collection. Collections holding settings are expected to contain at most
// one logical record; see SettingsResolver.
type SettingsRecord struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Cursor is a pagination resumption token: the sort key of the last item
// returned in a page. It is only valid for resuming the same ordering
// (created_at descending, id descending as tie-break). Concurrent inserts
// ahead of the cursor may shift page boundaries; that is accepted.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode renders the cursor as an opaque token safe for use in URLs.
func (c Cursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Cursor.Encode. A malformed token
// yields ErrInvalidInput.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor timestamp", ErrInvalidInput)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor id", ErrInvalidInput)
	}
	return Cursor{CreatedAt: ts, ID: id}, nil
}

// Page is one page of catalog items plus the state needed to fetch the
// next one. HasMore is a heuristic (returned count == requested page
// size), not a count query: when the result set is an exact multiple of
// the page size the caller may see one final empty page as the terminal
// signal.
type Page struct {
	Items      []*CatalogItem `json:"items"`
	NextCursor *Cursor        `json:"-"`
	HasMore    bool           `json:"has_more"`
}
