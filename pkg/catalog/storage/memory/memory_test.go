package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

func TestUploadGetDelete(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Upload(ctx, "a.png", "image/png", strings.NewReader("png-bytes")))
	assert.Equal(t, 1, backend.Len())

	data, contentType, ok := backend.Get("a.png")
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, backend.Delete(ctx, "a.png"))
	assert.Zero(t, backend.Len())

	_, _, ok = backend.Get("a.png")
	assert.False(t, ok)
}

func TestDeleteMissing(t *testing.T) {
	backend := New()
	err := backend.Delete(context.Background(), "nope.png")
	assert.ErrorIs(t, err, catalog.ErrAssetNotFound)
}

func TestUploadOverwrites(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Upload(ctx, "a.png", "image/png", strings.NewReader("v1")))
	require.NoError(t, backend.Upload(ctx, "a.png", "image/jpeg", strings.NewReader("v2")))
	assert.Equal(t, 1, backend.Len())

	data, contentType, ok := backend.Get("a.png")
	require.True(t, ok)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestPublicURL(t *testing.T) {
	t.Run("default base", func(t *testing.T) {
		backend := New()
		assert.Equal(t, "memory://objects/a.png", backend.PublicURL("a.png"))
	})

	t.Run("configured base", func(t *testing.T) {
		backend := New(WithBaseURL("https://cdn.test/assets/"))
		assert.Equal(t, "https://cdn.test/assets/a.png", backend.PublicURL("a.png"))
	})
}
