package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: parse url")
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "overunder:odds:42", redisKey("odds:42"))
}

// TestRedis_RoundTrip runs against a live server when OVERUNDER_TEST_REDIS_URL is set.
func TestRedis_RoundTrip(t *testing.T) {
	url := os.Getenv("OVERUNDER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("OVERUNDER_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	r, err := NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	key := "test:" + uuid.New().String()
	require.NoError(t, r.Set(ctx, key, []byte("v"), time.Minute))

	got, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, r.Delete(ctx, key))
	got, err = r.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
