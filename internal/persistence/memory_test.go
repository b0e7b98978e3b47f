package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/redis"
)

func disabledRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, err := redis.New(context.Background(), &config.Config{})
	require.NoError(t, err)
	return client
}

func TestMemoryGateway(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	_, err := gw.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	blob := []byte(`{"x":1}`)
	require.NoError(t, gw.Save(ctx, blob))
	blob[0] = '!'

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(got), "saved blob is copied")
	assert.Equal(t, 1, gw.Saves())
}

func TestMemoryGateway_SaveCancelled(t *testing.T) {
	gw := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, gw.Save(ctx, []byte(`{}`)), context.Canceled)
	assert.Equal(t, 0, gw.Saves())
}

func TestCachedGateway_DisabledRedisPassesThrough(t *testing.T) {
	next := NewMemoryGateway()
	gw := NewCachedGateway(next, disabledRedis(t), time.Minute, nil)
	ctx := context.Background()

	_, err := gw.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, gw.Save(ctx, []byte(`{"y":2}`)))
	assert.Equal(t, 1, next.Saves())

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"y":2}`, string(got))

	assert.Equal(t, Gateway(next), gw.Unwrap())
	assert.NoError(t, gw.Close())
}
