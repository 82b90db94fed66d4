package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCache_MemoizesWithinTTL(t *testing.T) {
	c := NewCountCache(time.Minute)

	loads := 0
	load := func(ctx context.Context, key string) (int64, error) {
		loads++
		return 42, nil
	}

	for i := 0; i < 5; i++ {
		v, err := c.Get(context.Background(), "evt-1", load)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	}
	assert.Equal(t, 1, loads)
}

func TestCountCache_ReloadsAfterExpiry(t *testing.T) {
	c := NewCountCache(time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	loads := 0
	load := func(ctx context.Context, key string) (int64, error) {
		loads++
		return int64(loads), nil
	}

	v, _ := c.Get(context.Background(), "evt-1", load)
	assert.Equal(t, int64(1), v)

	current = current.Add(2 * time.Minute)

	v, _ = c.Get(context.Background(), "evt-1", load)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, 2, loads)
}

func TestCountCache_FailedLoadNotCached(t *testing.T) {
	c := NewCountCache(time.Minute)

	calls := 0
	load := func(ctx context.Context, key string) (int64, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("store unavailable")
		}
		return 7, nil
	}

	_, err := c.Get(context.Background(), "evt-1", load)
	require.Error(t, err)

	v, err := c.Get(context.Background(), "evt-1", load)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestCountCache_Invalidate(t *testing.T) {
	c := NewCountCache(time.Minute)

	loads := 0
	load := func(ctx context.Context, key string) (int64, error) {
		loads++
		return int64(loads), nil
	}

	c.Get(context.Background(), "evt-1", load)
	c.Invalidate("evt-1")
	v, _ := c.Get(context.Background(), "evt-1", load)

	assert.Equal(t, int64(2), v)
}
