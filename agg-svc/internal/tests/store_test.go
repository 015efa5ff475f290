package tests

import (
	"context"
	"testing"

	"overcooked-pos/agg-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*storage.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return storage.NewStore(rdb), mr
}

func TestStore_InvalidateAdvancesGeneration(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	gen, err := store.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	gen, err = store.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	stored, err := mr.Get(storage.GenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "2", stored)
}

func TestStore_InvalidateRedisDown(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Invalidate(context.Background())
	assert.Error(t, err)
}
