package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SettingsResolver resolves the single logical record of a settings
// collection. The record's id is not fixed up front: it is discovered on
// first read and cached for the life of the resolver (the session).
//
// Known race, accepted: two resolvers that both observe an empty
// collection will each create a record, yielding two logical singletons.
// The originating system runs single-operator admin sessions, so this is
// tolerated. Multi-writer deployments should use UpsertFixed with a
// deterministic id instead.
type SettingsResolver struct {
	docs       DocumentStore
	collection string
	now        func() time.Time

	mu       sync.Mutex
	cachedID uuid.UUID
	resolved bool
}

// NewSettingsResolver creates a resolver bound to one settings collection.
func NewSettingsResolver(docs DocumentStore, collection string) *SettingsResolver {
	return &SettingsResolver{
		docs:       docs,
		collection: collection,
		now:        time.Now,
	}
}

// GetOrCreate returns the collection's record, creating it with defaults
// when the collection is empty. Subsequent calls reuse the cached id and
// skip the collection query unless the cached record has gone stale.
func (r *SettingsResolver) GetOrCreate(ctx context.Context, defaults map[string]any) (*SettingsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		rec, err := r.docs.GetSettings(ctx, r.collection, r.cachedID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, err
		}
		// Cached record deleted externally; fall back to a fresh query.
		r.resolved = false
	}

	return r.resolveLocked(ctx, defaults)
}

// Update merges fields into the collection's record and refreshes
// UpdatedAt. With a cached id it skips the collection query (the update
// fast path); if that id has gone stale it re-queries rather than failing
// permanently, creating the record when the collection turned out empty.
func (r *SettingsResolver) Update(ctx context.Context, fields map[string]any) (*SettingsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		rec, err := r.updateLocked(ctx, r.cachedID, fields)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, err
		}
		r.resolved = false
	}

	rec, err := r.resolveLocked(ctx, fields)
	if err != nil {
		return nil, err
	}
	// resolveLocked may have found an existing record rather than creating
	// one; apply the pending fields to it.
	return r.updateLocked(ctx, rec.ID, fields)
}

// UpsertFixed creates or replaces the record at a deterministic id,
// sidestepping the discover-then-create race entirely. Used for records
// whose identity is known up front.
func (r *SettingsResolver) UpsertFixed(ctx context.Context, id uuid.UUID, fields map[string]any) (*SettingsRecord, error) {
	now := r.now().UTC()
	rec := &SettingsRecord{
		ID:         id,
		Collection: r.collection,
		Fields:     fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.docs.PutSettings(ctx, rec); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cachedID = id
	r.resolved = true
	r.mu.Unlock()

	return rec, nil
}

// GetFixed reads the record at a deterministic id.
func (r *SettingsResolver) GetFixed(ctx context.Context, id uuid.UUID) (*SettingsRecord, error) {
	return r.docs.GetSettings(ctx, r.collection, id)
}

func (r *SettingsResolver) resolveLocked(ctx context.Context, defaults map[string]any) (*SettingsRecord, error) {
	rec, err := r.docs.FirstSettings(ctx, r.collection)
	if err == nil {
		r.cachedID = rec.ID
		r.resolved = true
		return rec, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, err
	}

	now := r.now().UTC()
	rec = &SettingsRecord{
		ID:         uuid.New(),
		Collection: r.collection,
		Fields:     defaults,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if rec.Fields == nil {
		rec.Fields = make(map[string]any)
	}
	if err := r.docs.CreateSettings(ctx, rec); err != nil {
		return nil, err
	}

	r.cachedID = rec.ID
	r.resolved = true
	return rec, nil
}

func (r *SettingsResolver) updateLocked(ctx context.Context, id uuid.UUID, fields map[string]any) (*SettingsRecord, error) {
	rec, err := r.docs.GetSettings(ctx, r.collection, id)
	if err != nil {
		return nil, err
	}
	if rec.Fields == nil {
		rec.Fields = make(map[string]any)
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}
	rec.UpdatedAt = r.now().UTC()
	if err := r.docs.UpdateSettings(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
