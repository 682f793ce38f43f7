package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-portal-api/internal/database"
	"church-portal-api/internal/repositories"
)

func setupFactory(t *testing.T) *SQLiteFactory {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	factory, err := NewSQLiteFactory(&database.ConnectionConfig{
		DatabasePath: filepath.Join(t.TempDir(), "items.db"),
		Logger:       logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { factory.Close() })
	return factory
}

func TestItemStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := setupFactory(t).CreateItemStore("users", "user_id")

	item := &repositories.Item{ID: "u1", Attributes: map[string]string{"name": "Ann", "email": "ann@example.com"}}
	require.NoError(t, store.Create(ctx, item))

	t.Run("Get", func(t *testing.T) {
		got, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"user_id": "u1", "name": "Ann", "email": "ann@example.com"}, got.Attributes)
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := store.Create(ctx, &repositories.Item{ID: "u1", Attributes: map[string]string{}})
		assert.True(t, repositories.IsDuplicate(err))
	})

	t.Run("Update", func(t *testing.T) {
		got, err := store.Update(ctx, "u1", map[string]string{"name": "Anne"})
		require.NoError(t, err)
		assert.Equal(t, "Anne", got.Attributes["name"])
		assert.Equal(t, "ann@example.com", got.Attributes["email"])
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		_, err := store.Update(ctx, "nobody", map[string]string{"name": "x"})
		assert.True(t, repositories.IsNotFound(err))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "u1"))
		_, err := store.Get(ctx, "u1")
		assert.True(t, repositories.IsNotFound(err))
		assert.True(t, repositories.IsNotFound(store.Delete(ctx, "u1")))
	})

	t.Run("EmptyID", func(t *testing.T) {
		_, err := store.Get(ctx, " ")
		assert.ErrorIs(t, err, repositories.ErrInvalidID)
	})
}

func TestItemStoreCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	factory := setupFactory(t)
	users := factory.CreateItemStore("users", "user_id")
	admins := factory.CreateItemStore("admins", "id")

	require.NoError(t, users.Create(ctx, &repositories.Item{ID: "same", Attributes: map[string]string{"name": "user"}}))
	require.NoError(t, admins.Create(ctx, &repositories.Item{ID: "same", Attributes: map[string]string{"username": "admin"}}))

	got, err := admins.Get(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Attributes["username"])
	assert.Equal(t, "same", got.Attributes["id"])
}

func TestItemStoreList(t *testing.T) {
	ctx := context.Background()
	store := setupFactory(t).CreateItemStore("users", "user_id")

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("u%d", i)
		require.NoError(t, store.Create(ctx, &repositories.Item{ID: id, Attributes: map[string]string{"name": id}}))
	}

	first, err := store.List(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "u1", first.Items[0].ID)
	assert.Equal(t, "u2", first.LastKey)

	second, err := store.List(ctx, 2, first.LastKey)
	require.NoError(t, err)
	assert.Equal(t, "u3", second.Items[0].ID)

	last, err := store.List(ctx, 10, "u4")
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Empty(t, last.LastKey)
}
