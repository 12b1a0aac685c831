//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

func newRedisStore(t *testing.T) *RedisIdempotencyStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := NewRedisIdempotencyStore(RedisConfig{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisIdempotencyStore_CicloDeClave(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	saleID, done, err := store.Claim(ctx, "t1", "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, saleID)

	_, _, err = store.Claim(ctx, "t1", "k1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	// Otro tenant no ve la clave.
	_, done, err = store.Claim(ctx, "t2", "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.Complete(ctx, "t1", "k1", "sale-9", time.Minute))
	saleID, done, err = store.Claim(ctx, "t1", "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "sale-9", saleID)

	require.NoError(t, store.Release(ctx, "t2", "k1"))
	_, done, err = store.Claim(ctx, "t2", "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.Ping(ctx))
}
