package cachestore_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-backend/cachestore"
)

func testEntry(body string) *cachestore.Entry {
	return &cachestore.Entry{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(body),
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	key := cachestore.Key{Method: http.MethodGet, URL: "http://app.local/api/customers?page=1"}

	t.Run("Miss", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()

		_, err := s.Match(ctx, "v1", key)

		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})

	t.Run("Put then Match", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()

		require.NoError(t, s.Put(ctx, "v1", key, testEntry(`{"data":[]}`)))
		entry, err := s.Match(ctx, "v1", key)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, entry.Status)
		assert.Equal(t, `{"data":[]}`, string(entry.Body))
		assert.Equal(t, "application/json", entry.Header.Get("Content-Type"))
	})

	t.Run("Put overwrites", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()

		require.NoError(t, s.Put(ctx, "v1", key, testEntry("old")))
		require.NoError(t, s.Put(ctx, "v1", key, testEntry("new")))

		entry, err := s.Match(ctx, "v1", key)
		require.NoError(t, err)
		assert.Equal(t, "new", string(entry.Body))
	})

	t.Run("Namespaces are isolated", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()

		require.NoError(t, s.Put(ctx, "v1", key, testEntry("one")))
		_, err := s.Match(ctx, "v2", key)

		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})

	t.Run("Purge deletes a whole namespace", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()
		require.NoError(t, s.Put(ctx, "v1", key, testEntry("one")))
		require.NoError(t, s.Put(ctx, "v2", key, testEntry("two")))

		require.NoError(t, s.Purge(ctx, "v1"))

		_, err := s.Match(ctx, "v1", key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)

		names, err := s.Namespaces(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"v2"}, names)
	})

	t.Run("Returned entry is a copy", func(t *testing.T) {
		s := cachestore.NewInMemoryStore()
		require.NoError(t, s.Put(ctx, "v1", key, testEntry("body")))

		entry, err := s.Match(ctx, "v1", key)
		require.NoError(t, err)
		entry.Body[0] = 'X'

		again, err := s.Match(ctx, "v1", key)
		require.NoError(t, err)
		assert.Equal(t, "body", string(again.Body))
	})
}
