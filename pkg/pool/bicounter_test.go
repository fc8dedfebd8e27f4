package pool

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiCounter_GetSet(t *testing.T) {
	var c biCounter
	c.init(pendingHi, 0)
	hi, lo := c.Get()
	require.Equal(t, pendingHi, hi)
	require.Equal(t, int32(0), lo)
	require.Equal(t, pendingHi, c.GetHi())
	require.Equal(t, int32(0), c.GetLo())
}

func TestBiCounter_CompareAndSwap(t *testing.T) {
	var c biCounter
	c.init(0, 0)

	require.True(t, c.CompareAndSwap(0, 0, 5, 3))
	hi, lo := c.Get()
	require.Equal(t, int32(5), hi)
	require.Equal(t, int32(3), lo)

	// A stale expectation on either half must fail the whole CAS.
	require.False(t, c.CompareAndSwap(5, 0, 9, 9))
	require.False(t, c.CompareAndSwap(0, 3, 9, 9))
	hi, lo = c.Get()
	require.Equal(t, int32(5), hi)
	require.Equal(t, int32(3), lo)
}

func TestBiCounter_PackUnpackRoundTrip(t *testing.T) {
	cases := [][2]int32{
		{0, 0},
		{math.MinInt32, 0},
		{math.MaxInt32, math.MaxInt32},
		{-1, 0},
		{-1, 7},
		{1234, -5678},
	}
	for _, c := range cases {
		hi, lo := unpackWord(packWord(c[0], c[1]))
		assert.Equal(t, c[0], hi)
		assert.Equal(t, c[1], lo)
	}
}

func TestBiCounter_ConcurrentCAS_OnlyOneWinnerPerStep(t *testing.T) {
	var c biCounter
	c.init(0, 0)
	var wins atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.CompareAndSwap(0, 0, 1, 1) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
	hi, lo := c.Get()
	require.Equal(t, int32(1), hi)
	require.Equal(t, int32(1), lo)
}
