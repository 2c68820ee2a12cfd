package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/strategy-scheduler/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: false, Prefix: "test"},
	}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Equal(t, "test", client.Prefix())
	assert.NoError(t, client.Close())
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(disabledClient(t))

	// When Redis is disabled, cache operations should be no-ops
	require.NoError(t, cache.Set(ctx, WeightsKey, map[string]float64{"a": 1}, time.Minute))

	var result map[string]float64
	found, err := cache.Get(ctx, WeightsKey, &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, result)

	assert.NoError(t, cache.Delete(ctx, WeightsKey))
}

func TestCache_FullKey(t *testing.T) {
	cache := NewCache(NewFromRedis(nil, "stratsched"))
	assert.Equal(t, "stratsched:cache:weights:all", cache.fullKey(WeightsKey))
}
