package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoroutineCache_PushPopRespectsCapacity(t *testing.T) {
	c := newGoroutineCache[string](2)

	e1, e2, e3 := &Entry[string]{}, &Entry[string]{}, &Entry[string]{}

	require.True(t, c.push(e1))
	require.True(t, c.push(e2))
	require.False(t, c.push(e3)) // at capacity

	got, ok := c.pop()
	require.True(t, ok)
	require.Same(t, e2, got) // LIFO

	got, ok = c.pop()
	require.True(t, ok)
	require.Same(t, e1, got)

	_, ok = c.pop()
	require.False(t, ok)
}

func TestPool_AcquireUsesCacheBeforeSharedList(t *testing.T) {
	p := newTestPool(t, 2, 4)

	resA, _ := p.Reserve(-1)
	require.NoError(t, resA.Enable("A"))
	resB, _ := p.Reserve(-1)
	require.NoError(t, resB.Enable("B"))

	e, ok := p.Acquire()
	require.True(t, ok)
	require.True(t, p.Release(e))

	// The just-released entry should be the one handed back on the very
	// next acquire, coming off this goroutine's cache.
	e2, ok := p.Acquire()
	require.True(t, ok)
	require.Same(t, e, e2)
	require.True(t, p.Release(e2))
}

func TestPool_CacheStalenessIsTolerated(t *testing.T) {
	p := newTestPool(t, 1, 4)
	res, _ := p.Reserve(-1)
	require.NoError(t, res.Enable("A"))
	e := res.Entry()

	got, ok := p.Acquire()
	require.True(t, ok)
	require.Same(t, e, got)
	require.True(t, p.Release(got))

	// Removing the entry out from under a cache that still references it
	// must never make tryAcquire succeed on the stale reference.
	require.True(t, p.Remove(e))
	require.False(t, e.tryAcquire())

	_, ok = p.Acquire()
	require.False(t, ok)
}
