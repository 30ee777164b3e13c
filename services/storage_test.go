package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-backend/services"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Save writes the object and returns its public URL", func(t *testing.T) {
		dir := t.TempDir()
		s := services.NewLocalStorage(dir, "http://localhost:8080/uploads/")

		url, err := s.Save(ctx, "customer-photos/abc.png", "image/png", strings.NewReader("png bytes"))

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/uploads/customer-photos/abc.png", url)

		data, err := os.ReadFile(filepath.Join(dir, "customer-photos", "abc.png"))
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(data))
	})

	t.Run("Delete removes the object", func(t *testing.T) {
		dir := t.TempDir()
		s := services.NewLocalStorage(dir, "http://localhost:8080/uploads")
		_, err := s.Save(ctx, "customer-photos/abc.png", "image/png", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "customer-photos/abc.png"))

		_, err = os.Stat(filepath.Join(dir, "customer-photos", "abc.png"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Delete of a missing object is not an error", func(t *testing.T) {
		s := services.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
		assert.NoError(t, s.Delete(ctx, "customer-photos/nope.png"))
	})

	t.Run("Paths outside the storage root are rejected", func(t *testing.T) {
		root := t.TempDir()
		uploads := filepath.Join(root, "uploads")
		require.NoError(t, os.Mkdir(uploads, 0755))
		secret := filepath.Join(root, "secret.txt")
		require.NoError(t, os.WriteFile(secret, []byte("keep out"), 0600))

		s := services.NewLocalStorage(uploads, "http://localhost:8080/uploads")

		assert.Error(t, s.Delete(ctx, "../secret.txt"))
		_, err := os.Stat(secret)
		require.NoError(t, err, "the sibling file must survive")

		assert.Error(t, s.Delete(ctx, "customer-photos/../../secret.txt"))
		assert.Error(t, s.Delete(ctx, ".."))

		_, err = s.Save(ctx, "../evil.txt", "text/plain", strings.NewReader("x"))
		assert.Error(t, err)
		_, err = os.Stat(filepath.Join(root, "evil.txt"))
		assert.True(t, os.IsNotExist(err))

		_, err = s.Save(ctx, "/etc/evil.txt", "text/plain", strings.NewReader("x"))
		assert.Error(t, err)
	})
}
