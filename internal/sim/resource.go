package sim

import (
	"unsafe"

	"github.com/thomasdraebing/entrypool/pkg/synced"
)

const defaultBodyLength = 1024

var bodyPool = synced.NewBatchPool(func() *Body {
	return &Body{p: make([]byte, 0, defaultBodyLength)}
})

// Body is the toy resource entrypoolsim stores in the pool: a reusable
// byte buffer standing in for a connection, a decoder, or any other
// pooled object a real downstream consumer would carry. It implements
// pool.Disposer so it is returned to bodyPool when the owning Entry is
// terminally removed.
type Body struct {
	p []byte
}

// AcquireBody pulls a Body out of the backing batch pool.
func AcquireBody() *Body {
	return bodyPool.Get()
}

// Bytes returns the buffer's contents. Managed by a sync.Pool: copy it if
// it must outlive the current operation.
func (b *Body) Bytes() []byte {
	return b.p
}

func (b *Body) Weight() int64 {
	return int64(cap(b.p)) + int64(unsafe.Sizeof(*b))
}

func (b *Body) Reset() {
	b.p = b.p[:0]
}

func (b *Body) Append(p []byte) *Body {
	b.p = append(b.p, p...)
	return b
}

// Dispose implements pool.Disposer, returning the buffer to bodyPool on
// terminal removal from the entrypool.
func (b *Body) Dispose() error {
	b.Reset()
	bodyPool.Put(b)
	return nil
}
