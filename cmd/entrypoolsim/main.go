package main

import (
	"bytes"
	"context"
	"runtime"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/fasthttp/router"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/thomasdraebing/entrypool/internal/sim"
	"github.com/thomasdraebing/entrypool/pkg/poolconfig"
	"github.com/thomasdraebing/entrypool/pkg/shutdown"
	"github.com/thomasdraebing/entrypool/pkg/utils"
)

const (
	configPath      = "entrypoolsim.cfg.yaml"
	configPathLocal = "entrypoolsim.cfg.local.yaml"
	listenAddr      = ":8089"
)

// setMaxProcs automatically sets the optimal GOMAXPROCS value (CPU
// parallelism) based on available CPUs and cgroup/docker CPU quotas.
func setMaxProcs() {
	if _, err := maxprocs.Set(); err != nil {
		log.Err(err).Msg("[main] setting up GOMAXPROCS value failed")
		panic(err)
	}
	log.Info().Msgf("[main] optimized GOMAXPROCS=%d was set up", runtime.GOMAXPROCS(0))
}

func loadCfg() (*poolconfig.Config, error) {
	cfg, err := poolconfig.LoadConfig(configPathLocal, configPath)
	if err != nil {
		log.Err(err).Msg("[config] failed to load")
		return nil, err
	}
	log.Info().Msgf("[config] pool config loaded: max_entries=%d cache_size=%d max_multiplex=%d max_usage_count=%d",
		cfg.Pool.MaxEntries, cfg.Pool.CacheSize, cfg.Pool.MaxMultiplex, cfg.Pool.MaxUsageCount)
	return cfg, nil
}

// Main entrypoint: loads the pool configuration, starts the simulated
// workload, and exposes pool metrics and a liveness endpoint over HTTP.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setMaxProcs()

	cfg, err := loadCfg()
	if err != nil {
		return
	}

	gracefulShutdown := shutdown.NewGraceful(ctx, cancel)
	gracefulShutdown.SetGracefulTimeout(time.Second * 10)

	app, err := sim.New(sim.Options{
		MaxEntries:    cfg.Pool.MaxEntries,
		CacheSize:     cfg.Pool.CacheSize,
		MaxMultiplex:  cfg.Pool.MaxMultiplex,
		MaxUsageCount: cfg.Pool.MaxUsageCount,
		Workers:       32,
		OpsPerSecond:  2000,
	})
	if err != nil {
		log.Err(err).Msg("[main] failed to init entrypool simulation")
		return
	}

	gracefulShutdown.Add(1)
	go func() {
		defer gracefulShutdown.Done()
		if err := app.Run(ctx); err != nil {
			log.Err(err).Msg("[sim] worker group exited with an error")
		}
	}()

	snapshotTicks := utils.NewTicker(ctx, time.Second)
	go func() {
		for range snapshotTicks {
			app.Recorder().Snapshot(app.Pool().Size(), app.Pool().PendingCount())
		}
	}()

	r := router.New()
	r.GET("/health", func(c *fasthttp.RequestCtx) {
		if app.Pool().IsClosed() {
			c.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		c.SetStatusCode(fasthttp.StatusOK)
	})
	r.GET("/metrics", func(c *fasthttp.RequestCtx) {
		var buf bytes.Buffer
		metrics.WritePrometheus(&buf, true)
		c.SetContentType("text/plain; version=0.0.4")
		_, _ = c.Write(buf.Bytes())
	})

	srv := &fasthttp.Server{Handler: r.Handler}

	gracefulShutdown.Add(1)
	go func() {
		defer gracefulShutdown.Done()
		log.Info().Msgf("[main] metrics/health server listening on %s", listenAddr)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			log.Err(err).Msg("[main] metrics/health server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	if err := gracefulShutdown.ListenCancelAndAwait(); err != nil {
		log.Err(err).Msg("[main] failed to gracefully shut down entrypoolsim")
	}

	app.Pool().Close()
}
