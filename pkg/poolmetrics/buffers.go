package poolmetrics

import "sync"

// sizedBufferPool manages one sync.Pool per size class, used to build
// label-safe metric name strings without an allocation on every lifecycle
// event. Unlike a single flat buffer pool, classing by size avoids
// growing every borrower's buffer to the size of the largest pool name
// ever observed in the process.
type sizedBufferPool struct {
	pools map[int]*sync.Pool
	sizes []int
}

func newSizedBufferPool() *sizedBufferPool {
	sizes := []int{64, 128, 256, 512, 1024}

	pools := make(map[int]*sync.Pool, len(sizes))
	for _, size := range sizes {
		sz := size
		pools[sz] = &sync.Pool{
			New: func() any {
				buf := make([]byte, 0, sz)
				return &buf
			},
		}
	}

	return &sizedBufferPool{pools: pools, sizes: sizes}
}

// get returns a buffer reset to zero length, with at least the requested
// capacity up to the largest size class (1024); larger requests get a
// 1024-byte buffer that grows on append.
func (s *sizedBufferPool) get(minCap int) *[]byte {
	pool := s.pools[s.sizeClass(minCap)]
	buf := pool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// put returns buf to the pool matching its capacity.
func (s *sizedBufferPool) put(buf *[]byte) {
	pool, ok := s.pools[s.sizeClass(cap(*buf))]
	if !ok {
		return
	}
	pool.Put(buf)
}

func (s *sizedBufferPool) sizeClass(weight int) int {
	for _, size := range s.sizes {
		if weight <= size {
			return size
		}
	}
	return s.sizes[len(s.sizes)-1]
}
