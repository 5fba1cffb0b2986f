package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	c.Set("property:1", "value", time.Minute)

	got, ok := c.Get("property:1")
	require.True(t, ok)
	require.Equal(t, "value", got)

	_, ok = c.Get("property:2")
	require.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("property:1", "value", time.Minute)

	_, ok := c.Get("property:1")
	require.True(t, ok)

	// Move the clock past the expiry; the entry becomes a miss and is evicted.
	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = c.Get("property:1")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestTTLCacheInvalidateExactKey(t *testing.T) {
	c := NewTTLCache()
	c.Set("property:1", "a", time.Minute)
	c.Set("property:10", "b", time.Minute)

	c.Invalidate("property:1")

	_, ok := c.Get("property:1")
	require.False(t, ok)
	// property:10 shares the prefix "property:1" so it is removed too; the
	// namespace operation is deliberately prefix-based.
	_, ok = c.Get("property:10")
	require.False(t, ok)
}

func TestTTLCacheInvalidateNamespace(t *testing.T) {
	c := NewTTLCache()
	c.Set(PropertyListKey("", "austin", "", "", "active", "", 1, 10), "page1", time.Minute)
	c.Set(PropertyListKey("", "boston", "", "", "active", "", 1, 10), "page2", time.Minute)
	c.Set(PropertyKey("abc"), "detail", time.Minute)

	c.Invalidate(PropertyListNamespace)

	require.Equal(t, 1, c.Len())
	_, ok := c.Get(PropertyKey("abc"))
	require.True(t, ok)
}

func TestPropertyListKeyIsolation(t *testing.T) {
	a := PropertyListKey("", "A", "", "", "active", "", 1, 10)
	b := PropertyListKey("", "B", "", "", "active", "", 1, 10)
	require.NotEqual(t, a, b)

	// page and limit are part of the key as well
	p1 := PropertyListKey("", "A", "", "", "active", "", 1, 10)
	p2 := PropertyListKey("", "A", "", "", "active", "", 2, 10)
	require.NotEqual(t, p1, p2)
}

func TestPropertyListKeyDelimiterValuesDoNotCollide(t *testing.T) {
	// A value carrying the delimiter or a label sequence must not shift
	// content into a neighboring dimension.
	a := PropertyListKey("a:city:b", "c", "", "", "active", "", 1, 10)
	b := PropertyListKey("a", "b:city:c", "", "", "active", "", 1, 10)
	require.NotEqual(t, a, b)

	c := PropertyListKey("", "A:min:5", "", "", "active", "", 1, 10)
	d := PropertyListKey("", "A", "5", "", "active", "", 1, 10)
	require.NotEqual(t, c, d)
}

func TestTTLCacheConcurrentAccess(t *testing.T) {
	c := NewTTLCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set("property:shared", j, time.Minute)
				c.Get("property:shared")
				c.Invalidate(PropertyListNamespace)
			}
		}()
	}
	wg.Wait()
}
