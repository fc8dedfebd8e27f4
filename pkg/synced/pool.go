package synced

import (
	"sync"
)

// BatchPool is a high-throughput generic object pool.
//
// The main goal is to:
// - Minimize allocations by reusing objects.
// - Provide simple typed Get/Put API over sync.Pool.
type BatchPool[T any] struct {
	pool      *sync.Pool // Underlying sync.Pool for thread-safe pooling
	allocFunc func() T   // Function to create new T
}

// NewBatchPool creates a new BatchPool around allocFunc, the constructor
// used whenever the pool has nothing to reuse.
func NewBatchPool[T any](allocFunc func() T) *BatchPool[T] {
	bp := &BatchPool[T]{allocFunc: allocFunc}
	bp.pool = &sync.Pool{
		New: func() any {
			return allocFunc()
		},
	}

	return bp
}

// Get retrieves an object from the pool, allocating if necessary.
// Never returns nil (unless allocFunc does).
func (bp *BatchPool[T]) Get() T {
	return bp.pool.Get().(T)
}

// Put returns an object to the pool for future reuse.
func (bp *BatchPool[T]) Put(v T) {
	bp.pool.Put(v)
}
