package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		SetClient(nil)
	})
	return mr
}

type cachedPost struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func TestAside_MissThenHit(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: 1, Text: "Тестовый пост"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &first, time.Minute, fetch(&first)))
	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	var dest cachedPost
	err := Aside(ctx, PostKey(2), &dest, time.Minute, func() error { return errors.New("db down") })

	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists(PostKey(2)))
}

func TestAside_WithoutClientAlwaysFetches(t *testing.T) {
	SetClient(nil)
	calls := 0
	var dest cachedPost
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), PostKey(3), &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestInvalidateIndex(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, IndexPageKey(1), []int{1}, time.Minute))
	require.NoError(t, SetJSON(ctx, IndexPageKey(2), []int{2}, time.Minute))
	require.NoError(t, SetJSON(ctx, PostKey(1), cachedPost{ID: 1}, time.Minute))

	InvalidateIndex(ctx)

	assert.False(t, mr.Exists(IndexPageKey(1)))
	assert.False(t, mr.Exists(IndexPageKey(2)))
	assert.True(t, mr.Exists(PostKey(1)))
}

func TestSessionRevocation(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	assert.False(t, IsSessionRevoked(ctx, "jti-1"))
	require.NoError(t, RevokeSession(ctx, "jti-1", time.Hour))
	assert.True(t, IsSessionRevoked(ctx, "jti-1"))
	assert.False(t, IsSessionRevoked(ctx, "jti-2"))
}

func TestSessionRevocation_WithoutRedis(t *testing.T) {
	SetClient(nil)
	assert.NoError(t, RevokeSession(context.Background(), "jti", time.Hour))
	assert.False(t, IsSessionRevoked(context.Background(), "jti"))
}
