package cachestore_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-backend/cachestore"
)

func newLevelDBStore(t *testing.T) *cachestore.LevelDBStore {
	t.Helper()
	s, err := cachestore.NewLevelDBStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLevelDBStore(t *testing.T) {
	ctx := context.Background()
	key := cachestore.Key{Method: http.MethodGet, URL: "http://app.local/manifest.json"}

	t.Run("Round trip", func(t *testing.T) {
		s := newLevelDBStore(t)

		require.NoError(t, s.Put(ctx, "v1", key, testEntry(`{"name":"app"}`)))

		entry, err := s.Match(ctx, "v1", key)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, entry.Status)
		assert.Equal(t, `{"name":"app"}`, string(entry.Body))
	})

	t.Run("Miss", func(t *testing.T) {
		s := newLevelDBStore(t)

		_, err := s.Match(ctx, "v1", key)

		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})

	t.Run("Namespaces and Purge", func(t *testing.T) {
		s := newLevelDBStore(t)
		other := cachestore.Key{Method: http.MethodGet, URL: "http://app.local/icons/icon-192x192.png"}
		require.NoError(t, s.Put(ctx, "v1", key, testEntry("one")))
		require.NoError(t, s.Put(ctx, "v1", other, testEntry("two")))
		require.NoError(t, s.Put(ctx, "v2", key, testEntry("three")))

		names, err := s.Namespaces(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"v1", "v2"}, names)

		require.NoError(t, s.Purge(ctx, "v1"))

		_, err = s.Match(ctx, "v1", key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)
		_, err = s.Match(ctx, "v1", other)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)

		entry, err := s.Match(ctx, "v2", key)
		require.NoError(t, err)
		assert.Equal(t, "three", string(entry.Body))
	})
}
