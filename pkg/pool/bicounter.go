package pool

import (
	"math"
	"sync/atomic"
)

// pendingHi is the reserved hi value denoting an entry that has been
// reserved but not yet enabled.
const pendingHi = int32(math.MinInt32)

// biCounter packs two signed 32-bit fields, hi and lo, into a single
// atomic 64-bit word so that every Entry state transition is one
// compare-and-swap across both fields at once. Built directly on
// atomic.Int64, whose Load/CompareAndSwap are sequentially consistent in
// Go's memory model, giving the happens-before relation between a
// successful enable CAS and any later acquire CAS that observes the new
// hi without any extra fences.
type biCounter struct {
	word atomic.Int64
}

func packWord(hi, lo int32) int64 {
	return int64(hi)<<32 | int64(uint32(lo))
}

func unpackWord(w int64) (hi, lo int32) {
	hi = int32(w >> 32)
	lo = int32(uint32(w))
	return hi, lo
}

func (c *biCounter) init(hi, lo int32) {
	c.word.Store(packWord(hi, lo))
}

// Get returns the current (hi, lo) pair as a single consistent snapshot.
func (c *biCounter) Get() (hi, lo int32) {
	return unpackWord(c.word.Load())
}

// GetHi returns only the hi half.
func (c *biCounter) GetHi() int32 {
	hi, _ := c.Get()
	return hi
}

// GetLo returns only the lo half.
func (c *biCounter) GetLo() int32 {
	_, lo := c.Get()
	return lo
}

// CompareAndSwap succeeds only if both halves currently match the
// expected values; there is no partial-update path.
func (c *biCounter) CompareAndSwap(eHi, eLo, nHi, nLo int32) bool {
	return c.word.CompareAndSwap(packWord(eHi, eLo), packWord(nHi, nLo))
}
