package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, maxEntries, cacheSize int, opts ...Option[string]) *Pool[string] {
	t.Helper()
	p, err := NewPool[string](maxEntries, cacheSize, opts...)
	require.NoError(t, err)
	return p
}

func TestEntry_TryAcquireRelease(t *testing.T) {
	p := newTestPool(t, 1, 0)
	res, ok := p.Reserve(-1)
	require.True(t, ok)

	require.NoError(t, res.Enable("A"))
	e := res.Entry()

	require.False(t, e.IsClosed())
	require.True(t, e.IsIdle())

	require.True(t, e.tryAcquire())
	require.False(t, e.IsIdle())
	require.EqualValues(t, 1, e.UsageCount())

	// Default maxMultiplex is 1; a second acquire must fail.
	require.False(t, e.tryAcquire())

	require.True(t, e.tryRelease())
	require.True(t, e.IsIdle())
}

func TestEntry_TryReleaseOverReleasePanics(t *testing.T) {
	p := newTestPool(t, 1, 0)
	res, _ := p.Reserve(-1)
	require.NoError(t, res.Enable("A"))
	e := res.Entry()

	require.True(t, e.tryAcquire())
	require.True(t, e.tryRelease())

	require.Panics(t, func() { e.tryRelease() })
}

func TestEntry_TryRemove_LastOutReturnsTrue(t *testing.T) {
	p := newTestPool(t, 1, 0)
	require.NoError(t, p.SetMaxMultiplex(2))

	res, _ := p.Reserve(-1)
	require.NoError(t, res.Enable("A"))
	e := res.Entry()

	require.True(t, e.tryAcquire())
	require.True(t, e.tryAcquire())

	// Two outstanding acquisitions; forcing closed leaves one still held.
	require.False(t, e.tryRemove())
	require.True(t, e.IsClosed())

	// The remaining holder's release observes closed and bails out...
	require.False(t, e.tryRelease())

	// ...and its own remove call is the delete token.
	require.True(t, e.tryRemove())
}

func TestEntry_UsageCountRetirement(t *testing.T) {
	p := newTestPool(t, 1, 0)
	require.NoError(t, p.SetMaxUsageCount(2))

	res, _ := p.Reserve(-1)
	require.NoError(t, res.Enable("Y"))
	e := res.Entry()

	require.True(t, e.tryAcquire())
	require.True(t, e.tryRelease())

	require.True(t, e.tryAcquire())
	require.False(t, e.tryRelease()) // retired: caller must remove

	require.False(t, e.tryAcquire())
}

func TestEntry_PendingEntryIsIdleAndNotClosed(t *testing.T) {
	p := newTestPool(t, 1, 0)
	res, ok := p.Reserve(-1)
	require.True(t, ok)
	e := res.Entry()

	require.True(t, e.IsIdle())
	require.False(t, e.IsClosed())
	require.EqualValues(t, 0, e.UsageCount())
	require.Nil(t, e.Value())
}
