package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Graceful coordinates an orderly process shutdown: it waits for either
// an OS termination signal or explicit context cancellation, then gives
// registered workers a bounded window to finish via Add/Done before
// returning.
type Graceful struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewGraceful wraps ctx/cancel, the same root context pair main()
// constructs, so signal-triggered cancellation and caller-triggered
// cancellation converge on one path.
func NewGraceful(ctx context.Context, cancel context.CancelFunc) *Graceful {
	return &Graceful{
		ctx:     ctx,
		cancel:  cancel,
		timeout: 30 * time.Second,
	}
}

// SetGracefulTimeout bounds how long ListenCancelAndAwait waits for
// registered workers after cancellation before giving up and returning.
func (g *Graceful) SetGracefulTimeout(d time.Duration) {
	g.timeout = d
}

// Add registers n workers that must call Done before shutdown is
// considered complete.
func (g *Graceful) Add(n int) {
	g.wg.Add(n)
}

// Done marks one registered worker finished.
func (g *Graceful) Done() {
	g.wg.Done()
}

// ListenCancelAndAwait blocks until SIGINT, SIGTERM, or the wrapped
// context is cancelled, then cancels the context (idempotent) and waits
// up to the configured timeout for every registered worker to finish. It
// returns an error if the timeout elapses first.
func (g *Graceful) ListenCancelAndAwait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		log.Info().Msg("[shutdown] signal received, shutting down")
		g.cancel()
	case <-g.ctx.Done():
		log.Info().Msg("[shutdown] context cancelled, shutting down")
	}

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(g.timeout):
		return fmt.Errorf("shutdown: timed out after %s waiting for workers", g.timeout)
	}
}
