package rate

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles the demo's simulated workers to a steady rate of
// pool operations per second, so a load run is reproducible rather than
// bound purely by how fast the goroutines can spin.
type Limiter struct {
	cancel context.CancelFunc
	ch     chan struct{}
	l      *rate.Limiter
	limit  int
}

func NewLimiter(gCtx context.Context, limit, burst int) *Limiter {
	ctx, cancel := context.WithCancel(gCtx)
	limiter := &Limiter{
		cancel: cancel,
		limit:  limit,
		ch:     make(chan struct{}),
		l:      rate.NewLimiter(rate.Limit(limit), burst),
	}
	go limiter.provider(ctx)
	return limiter
}

func (l *Limiter) provider(ctx context.Context) {
	defer close(l.ch)
	for {
		if err := l.l.Wait(ctx); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case l.ch <- struct{}{}:
		}
	}
}

// Take blocks until the limiter's token bucket admits one more
// operation.
func (l *Limiter) Take() {
	_ = l.l.Wait(context.Background())
}

func (l *Limiter) Limit() int {
	return l.limit
}

func (l *Limiter) Chan() <-chan struct{} {
	return l.ch
}

func (l *Limiter) Stop() {
	l.cancel()
}
