package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thomasdraebing/entrypool/pkg/pool"
	"github.com/thomasdraebing/entrypool/pkg/poolmetrics"
	"github.com/thomasdraebing/entrypool/pkg/rate"
)

// Options configures a simulation run.
type Options struct {
	MaxEntries    int
	CacheSize     int
	MaxMultiplex  int32
	MaxUsageCount int32
	Workers       int
	OpsPerSecond  int
}

// App owns an entrypool and the worker goroutines that drive it, standing
// in for the real downstream consumer the pool is built to serve.
type App struct {
	pool     *pool.Pool[*Body]
	recorder *poolmetrics.Recorder
	opts     Options
}

// New builds a Pool[*Body], preloading it with maxEntries enabled
// reservations so the workers below have something to acquire
// immediately.
func New(opts Options) (*App, error) {
	recorder := poolmetrics.New("entrypoolsim")

	p, err := pool.NewPool[*Body](
		opts.MaxEntries,
		opts.CacheSize,
		pool.WithMaxMultiplex[*Body](opts.MaxMultiplex),
		pool.WithMaxUsageCount[*Body](opts.MaxUsageCount),
		pool.WithRecorder[*Body](recorder),
	)
	if err != nil {
		return nil, err
	}

	for i := 0; i < opts.MaxEntries; i++ {
		res, ok := p.Reserve(-1)
		if !ok {
			break
		}
		if err := res.Enable(AcquireBody()); err != nil {
			log.Err(err).Msg("[sim] failed to enable a preloaded entry")
		}
	}

	return &App{pool: p, recorder: recorder, opts: opts}, nil
}

// Pool exposes the underlying pool for the HTTP health endpoint.
func (a *App) Pool() *pool.Pool[*Body] {
	return a.pool
}

// Recorder exposes the metrics recorder for the HTTP metrics endpoint's
// gauge refresh.
func (a *App) Recorder() *poolmetrics.Recorder {
	return a.recorder
}

// Run launches Options.Workers goroutines, each repeatedly acquiring an
// entry, doing a trivial amount of simulated work, and releasing it,
// retiring and replacing entries as their usage count exhausts. It
// returns when ctx is cancelled or any worker returns a non-nil error.
func (a *App) Run(ctx context.Context) error {
	limiter := rate.NewLimiter(ctx, a.opts.OpsPerSecond, a.opts.OpsPerSecond)
	defer limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < a.opts.Workers; w++ {
		g.Go(func() error {
			return a.worker(gctx, limiter)
		})
	}
	return g.Wait()
}

func (a *App) worker(ctx context.Context, limiter *rate.Limiter) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-limiter.Chan():
		}

		e, ok := a.pool.Acquire()
		if !ok {
			continue
		}

		time.Sleep(time.Microsecond) // stand-in for real work against the resource

		if !a.pool.Release(e) {
			if a.pool.Remove(e) {
				res, ok := a.pool.Reserve(-1)
				if !ok {
					continue
				}
				if err := res.Enable(AcquireBody()); err != nil {
					log.Err(err).Msg("[sim] failed to re-enable a retired slot")
				}
			}
		}
	}
}
