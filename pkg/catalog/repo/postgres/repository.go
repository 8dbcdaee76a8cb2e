// Package postgres provides a catalog.DocumentStore backed by PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE catalog_items (
//	    id          UUID PRIMARY KEY,
//	    name        TEXT NOT NULL,
//	    category    TEXT NOT NULL DEFAULT '',
//	    price       NUMERIC NOT NULL DEFAULT 0,
//	    weight      NUMERIC NOT NULL DEFAULT 0,
//	    available   BOOLEAN NOT NULL DEFAULT TRUE,
//	    asset_url   TEXT NOT NULL DEFAULT '',
//	    description TEXT NOT NULL DEFAULT '',
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX catalog_items_created_at_id_idx
//	    ON catalog_items (created_at DESC, id DESC);
//
//	CREATE TABLE settings (
//	    id         UUID NOT NULL,
//	    collection TEXT NOT NULL,
//	    fields     JSONB NOT NULL DEFAULT '{}',
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.DocumentStore using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL document store
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL document store from a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// classify maps driver errors onto the catalog error taxonomy so callers
// can tell operator-actionable schema problems from retryable transport
// failures.
func classify(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01", "42703": // undefined_table, undefined_column
			return fmt.Errorf("%w: %s (code %s)", catalog.ErrIndexMissing, pgErr.Message, pgErr.Code)
		case "28000", "28P01": // invalid_authorization_specification, invalid_password
			return fmt.Errorf("%w: %s", catalog.ErrNotAuthorized, pgErr.Message)
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s: %s", operation, pgErr.Message)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &catalog.TransportError{Op: operation, Err: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrItemNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Item operations

func (r *Repository) CreateItem(ctx context.Context, item *catalog.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (
			id, name, category, price, weight, available,
			asset_url, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Price, item.Weight,
		item.Available, item.AssetURL, item.Description,
		item.CreatedAt, item.UpdatedAt)

	if err != nil {
		return classify("create item", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, error) {
	query := `
		SELECT id, name, category, price, weight, available,
		       asset_url, description, created_at, updated_at
		FROM catalog_items WHERE id = $1`

	var item catalog.CatalogItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Category, &item.Price, &item.Weight,
		&item.Available, &item.AssetURL, &item.Description,
		&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, classify("get item", err)
	}
	return &item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *catalog.CatalogItem) error {
	query := `
		UPDATE catalog_items SET
			name = $2, category = $3, price = $4, weight = $5,
			available = $6, asset_url = $7, description = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Price, item.Weight,
		item.Available, item.AssetURL, item.Description, item.UpdatedAt)

	if err != nil {
		return classify("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return classify("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

func (r *Repository) QueryItems(ctx context.Context, q catalog.ItemQuery) ([]*catalog.CatalogItem, error) {
	if q.Limit <= 0 {
		q.Limit = catalog.DefaultPageSize
	}

	// Keyset pagination: the row comparison (created_at, id) < (cursor)
	// resumes strictly after the cursor under the same descending order
	// the index serves.
	var rows pgx.Rows
	var err error
	if q.After != nil {
		rows, err = r.db.Query(ctx, `
			SELECT id, name, category, price, weight, available,
			       asset_url, description, created_at, updated_at
			FROM catalog_items
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`,
			q.After.CreatedAt, q.After.ID, q.Limit)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT id, name, category, price, weight, available,
			       asset_url, description, created_at, updated_at
			FROM catalog_items
			ORDER BY created_at DESC, id DESC
			LIMIT $1`,
			q.Limit)
	}
	if err != nil {
		return nil, classify("query items", err)
	}
	defer rows.Close()

	var items []*catalog.CatalogItem
	for rows.Next() {
		var item catalog.CatalogItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Price, &item.Weight,
			&item.Available, &item.AssetURL, &item.Description,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, classify("query items", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("query items", err)
	}
	return items, nil
}

func (r *Repository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&count)
	if err != nil {
		return 0, classify("count items", err)
	}
	return count, nil
}

// Settings operations

func (r *Repository) CreateSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	query := `
		INSERT INTO settings (id, collection, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Collection, rec.Fields, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return classify("create settings", err)
	}
	return nil
}

func (r *Repository) GetSettings(ctx context.Context, collection string, id uuid.UUID) (*catalog.SettingsRecord, error) {
	query := `
		SELECT id, collection, fields, created_at, updated_at
		FROM settings WHERE collection = $1 AND id = $2`

	var rec catalog.SettingsRecord
	err := r.db.QueryRow(ctx, query, collection, id).Scan(
		&rec.ID, &rec.Collection, &rec.Fields, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSettingsNotFound
		}
		return nil, classify("get settings", err)
	}
	return &rec, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	query := `
		UPDATE settings SET fields = $3, updated_at = $4
		WHERE collection = $1 AND id = $2`

	tag, err := r.db.Exec(ctx, query,
		rec.Collection, rec.ID, rec.Fields, rec.UpdatedAt)
	if err != nil {
		return classify("update settings", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSettingsNotFound
	}
	return nil
}

func (r *Repository) PutSettings(ctx context.Context, rec *catalog.SettingsRecord) error {
	query := `
		INSERT INTO settings (id, collection, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE
		SET fields = EXCLUDED.fields, updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Collection, rec.Fields, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return classify("put settings", err)
	}
	return nil
}

func (r *Repository) FirstSettings(ctx context.Context, collection string) (*catalog.SettingsRecord, error) {
	query := `
		SELECT id, collection, fields, created_at, updated_at
		FROM settings WHERE collection = $1
		ORDER BY created_at, id
		LIMIT 1`

	var rec catalog.SettingsRecord
	err := r.db.QueryRow(ctx, query, collection).Scan(
		&rec.ID, &rec.Collection, &rec.Fields, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSettingsNotFound
		}
		return nil, classify("first settings", err)
	}
	return &rec, nil
}
