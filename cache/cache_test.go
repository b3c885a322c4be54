package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](Config[string, int]{Name: "test", MaxSize: 10})

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 0.0001)
	assert.Equal(t, "test", c.Name())
}

func TestCache_DefaultName(t *testing.T) {
	c := New[int, int](Config[int, int]{})
	assert.Equal(t, "unnamed", c.Name())
	assert.Zero(t, c.Stats().HitRate())
}

func TestCache_LRUEviction(t *testing.T) {
	var evicted []string
	c := New[string, int](Config[string, int]{
		MaxSize: 2,
		OnEvict: func(key string, value int) { evicted = append(evicted, key) },
	})

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a") // b 成为最久未使用
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, int](Config[string, int]{TTL: time.Minute})
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(30 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(1), c.Stats().Expires)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[int, string](Config[int, string]{})
	c.Set(1, "one")
	c.Set(2, "two")

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(2)
	assert.False(t, ok)
}

func TestCache_Concurrent(t *testing.T) {
	c := New[string, int](Config[string, int]{MaxSize: 50})
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n*j)%80)
				c.Set(key, j)
				_, _ = c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
