package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tokoternak/catalog-admin/pkg/catalog/objectkey"
)

// service implements the Service interface
type service struct {
	docs           DocumentStore
	blobStores     map[string]BlobStore
	defaultBackend string
	keys           objectkey.Generator
	logger         *slog.Logger
	now            func() time.Time

	locks itemLocks
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithDocumentStore sets the document store for the service
func WithDocumentStore(docs DocumentStore) Option {
	return func(s *service) {
		s.docs = docs
	}
}

// WithBlobStore adds a blob storage backend. The first registered backend
// becomes the default unless WithDefaultBlobStore overrides it.
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
		if s.defaultBackend == "" {
			s.defaultBackend = name
		}
	}
}

// WithDefaultBlobStore selects which registered backend receives uploads
func WithDefaultBlobStore(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithObjectKeyGenerator sets the storage key generation strategy
func WithObjectKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source. Intended for tests that need
// deterministic created_at ordering.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores: make(map[string]BlobStore),
		keys:       objectkey.NewRandomGenerator(),
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.docs == nil {
		return nil, fmt.Errorf("document store is required")
	}

	return s, nil
}

func (s *service) blobStore() (BlobStore, error) {
	store, ok := s.blobStores[s.defaultBackend]
	if !ok {
		return nil, fmt.Errorf("storage backend %q not configured", s.defaultBackend)
	}
	return store, nil
}

// Item operations

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*CatalogItem, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must not be negative", ErrInvalidInput)
	}
	if req.Asset == nil {
		return nil, fmt.Errorf("%w: an image asset is required", ErrInvalidInput)
	}

	// Upload first. On failure nothing has been written to the document
	// store, so the caller can retry the whole operation.
	assetURL, err := s.UploadAsset(ctx, UploadAssetRequest{
		Data:        req.Asset.Data,
		ContentType: req.Asset.ContentType,
		FileName:    req.Asset.FileName,
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &CatalogItem{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Weight:      req.Weight,
		Available:   req.Available,
		AssetURL:    assetURL,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docs.CreateItem(ctx, item); err != nil {
		// The uploaded asset is now orphaned. Reconciliation is out of
		// scope; record enough context for an operator to clean up.
		s.logger.Warn("metadata write failed after upload, asset orphaned",
			"asset_url", assetURL, "error", err)
		return nil, &ItemError{ItemID: item.ID, Op: "create", Err: err}
	}

	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	return s.docs.GetItem(ctx, id)
}

func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) (*CatalogItem, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.Weight != nil && *req.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must not be negative", ErrInvalidInput)
	}

	unlock := s.locks.lock(req.ID)
	defer unlock()

	item, err := s.docs.GetItem(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Weight != nil {
		item.Weight = *req.Weight
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.AssetURL != nil {
		item.AssetURL = *req.AssetURL
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.docs.UpdateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	item, err := s.docs.GetItem(ctx, id)
	if err != nil {
		return err
	}

	// Best effort: an asset-delete failure must not block removal of the
	// metadata record. The storage leak is accepted and logged.
	if item.AssetURL != "" {
		if err := s.DeleteAsset(ctx, DeleteAssetRequest{URL: item.AssetURL}); err != nil {
			s.logger.Warn("best-effort asset delete failed, record removal continues",
				"item_id", id, "asset_url", item.AssetURL, "error", err)
		}
	}

	if err := s.docs.DeleteItem(ctx, id); err != nil {
		return &ItemError{ItemID: id, Op: "delete", Err: err}
	}

	return nil
}

func (s *service) ListItems(ctx context.Context, cursor *Cursor, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	items, err := s.docs.QueryItems(ctx, ItemQuery{After: cursor, Limit: pageSize})
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items:   items,
		HasMore: len(items) == pageSize,
	}
	if len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}

func (s *service) CountItems(ctx context.Context) (int64, error) {
	return s.docs.CountItems(ctx)
}

// itemLocks serializes mutating operations per item id within one service
// instance. Entries are never evicted; the map is bounded by the set of
// ids touched during the process lifetime.
type itemLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

func (l *itemLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[uuid.UUID]*sync.Mutex)
	}
	im, ok := l.m[id]
	if !ok {
		im = &sync.Mutex{}
		l.m[id] = im
	}
	l.mu.Unlock()

	im.Lock()
	return im.Unlock
}
