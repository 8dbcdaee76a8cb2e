package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		verify func(t *testing.T, got error)
	}{
		{
			name: "undefined table is a missing index",
			err:  &pgconn.PgError{Code: "42P01", Message: `relation "catalog_items" does not exist`},
			verify: func(t *testing.T, got error) {
				assert.ErrorIs(t, got, catalog.ErrIndexMissing)
			},
		},
		{
			name: "undefined column is a missing index",
			err:  &pgconn.PgError{Code: "42703", Message: `column "created_at" does not exist`},
			verify: func(t *testing.T, got error) {
				assert.ErrorIs(t, got, catalog.ErrIndexMissing)
			},
		},
		{
			name: "bad credentials",
			err:  &pgconn.PgError{Code: "28P01", Message: "password authentication failed"},
			verify: func(t *testing.T, got error) {
				assert.ErrorIs(t, got, catalog.ErrNotAuthorized)
			},
		},
		{
			name: "network failure is transient",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			verify: func(t *testing.T, got error) {
				assert.True(t, catalog.IsTransient(got))
			},
		},
		{
			name: "deadline exceeded is transient",
			err:  context.DeadlineExceeded,
			verify: func(t *testing.T, got error) {
				assert.True(t, catalog.IsTransient(got))
			},
		},
		{
			name: "no rows maps to not found",
			err:  pgx.ErrNoRows,
			verify: func(t *testing.T, got error) {
				assert.ErrorIs(t, got, catalog.ErrItemNotFound)
			},
		},
		{
			name: "other pg errors stay opaque",
			err:  &pgconn.PgError{Code: "53300", Message: "too many connections"},
			verify: func(t *testing.T, got error) {
				assert.NotErrorIs(t, got, catalog.ErrIndexMissing)
				assert.NotErrorIs(t, got, catalog.ErrNotAuthorized)
				assert.False(t, catalog.IsTransient(got))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, classify("query_items", tt.err))
		})
	}
}

func TestClassifyKeepsOriginalError(t *testing.T) {
	cause := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}
	got := classify("get_item", cause)

	var te *catalog.TransportError
	assert.ErrorAs(t, got, &te)
	assert.Equal(t, "get_item", te.Op)
	assert.ErrorIs(t, te.Err, cause)
}

var _ catalog.DocumentStore = (*Repository)(nil)
