package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestRememberReadsThrough(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	calls := 0
	load := func() (item, error) {
		calls++
		return item{Name: "tee"}, nil
	}

	first, err := Remember(ctx, c, "product:tee", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "product:tee", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, item{Name: "tee"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	Forget(ctx, c, "product:tee")
	_, err = Remember(ctx, c, "product:tee", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	boom := errors.New("boom")

	_, err := Remember(ctx, c, "k", time.Minute, func() (item, error) { return item{}, boom })
	assert.ErrorIs(t, err, boom)

	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRememberWithNopAlwaysLoads(t *testing.T) {
	calls := 0
	for range 2 {
		_, err := Remember(context.Background(), Nop{}, "k", time.Minute, func() (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryIncr(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	now = now.Add(time.Minute)
	n, err := c.Incr(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
