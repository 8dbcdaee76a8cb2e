// Package memory provides an in-memory catalog.DocumentStore, used in
// tests and for running the server without external dependencies.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

type settingsKey struct {
	collection string
	id         uuid.UUID
}

// Repository implements catalog.DocumentStore using in-memory maps
type Repository struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]*catalog.CatalogItem
	settings map[settingsKey]*catalog.SettingsRecord
}

// New creates a new in-memory document store
func New() *Repository {
	return &Repository{
		items:    make(map[uuid.UUID]*catalog.CatalogItem),
		settings: make(map[settingsKey]*catalog.SettingsRecord),
	}
}

// Item operations

func (r *Repository) CreateItem(ctx context.Context, item *catalog.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	itemCopy := *item
	r.items[item.ID] = &itemCopy
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, catalog.ErrItemNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *catalog.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return catalog.ErrItemNotFound
	}
	itemCopy := *item
	r.items[item.ID] = &itemCopy
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return catalog.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) QueryItems(ctx context.Context, q catalog.ItemQuery) ([]*catalog.CatalogItem, error) {
	if q.Limit <= 0 {
		q.Limit = catalog.DefaultPageSize
	}

	r.mu.RLock()
	all := make([]*catalog.CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		itemCopy := *item
		all = append(all, &itemCopy)
	}
	r.mu.RUnlock()

	// created_at descending, id descending as tie-break: the same total
	// order the postgres store's (created_at, id) keyset uses.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	// Resume strictly after the cursor's sort key. Works even when the
	// cursor's own record has since been deleted.
	start := 0
	if q.After != nil {
		for start < len(all) && !strictlyAfter(all[start], q.After) {
			start++
		}
	}

	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// strictlyAfter reports whether item sorts strictly after the cursor in
// listing order (created_at desc, id desc).
func strictlyAfter(item *catalog.CatalogItem, c *catalog.Cursor) bool {
	if item.CreatedAt.Before(c.CreatedAt) {
		return true
	}
	if item.CreatedAt.Equal(c.CreatedAt) {
		return item.ID.String() < c.ID.String()
	}
	return false
}

func (r *Repository) CountItems(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

// Settings operations

func (r *Repository) CreateSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recCopy := copySettings(rec)
	r.settings[settingsKey{rec.Collection, rec.ID}] = recCopy
	return nil
}

func (r *Repository) GetSettings(ctx context.Context, collection string, id uuid.UUID) (*catalog.SettingsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.settings[settingsKey{collection, id}]
	if !exists {
		return nil, catalog.ErrSettingsNotFound
	}
	return copySettings(rec), nil
}

func (r *Repository) UpdateSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := settingsKey{rec.Collection, rec.ID}
	if _, exists := r.settings[key]; !exists {
		return catalog.ErrSettingsNotFound
	}
	r.settings[key] = copySettings(rec)
	return nil
}

func (r *Repository) PutSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := settingsKey{rec.Collection, rec.ID}
	recCopy := copySettings(rec)
	if existing, exists := r.settings[key]; exists {
		recCopy.CreatedAt = existing.CreatedAt
	}
	r.settings[key] = recCopy
	return nil
}

func (r *Repository) FirstSettings(ctx context.Context, collection string) (*catalog.SettingsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*catalog.SettingsRecord
	for key, rec := range r.settings {
		if key.collection == collection {
			found = append(found, rec)
		}
	}
	if len(found) == 0 {
		return nil, catalog.ErrSettingsNotFound
	}
	// Deterministic pick: oldest record, id as tie-break.
	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.Before(found[j].CreatedAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})
	return copySettings(found[0]), nil
}

func copySettings(rec *catalog.SettingsRecord) *catalog.SettingsRecord {
	recCopy := *rec
	if rec.Fields != nil {
		recCopy.Fields = make(map[string]any, len(rec.Fields))
		for k, v := range rec.Fields {
			recCopy.Fields[k] = v
		}
	}
	return &recCopy
}
