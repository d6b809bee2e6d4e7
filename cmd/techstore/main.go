// Command techstore runs the storefront REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"

	"github.com/rudranil/techstore/cache"
	"github.com/rudranil/techstore/cache/kvstore"
	"github.com/rudranil/techstore/cache/types"
	"github.com/rudranil/techstore/internal/api"
	"github.com/rudranil/techstore/internal/config"
	applog "github.com/rudranil/techstore/internal/log"
	"github.com/rudranil/techstore/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("techstore exited")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applog.Init(cfg.LogLevel)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	kv, cleanup, err := buildCacheStore(cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	counters := &types.Counters{}
	opts := []cache.Option{
		cache.WithDefaultTTL(cfg.CacheTTL),
		cache.WithMetrics(counters),
		cache.WithLogger(log.Log),
	}
	if !cfg.CacheEnabled {
		opts = append(opts, cache.Disabled())
	}
	client := cache.New(kv, opts...)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.New(st, client, counters, log.Log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).
			WithField("cache_backend", cfg.CacheBackend).
			Info("techstore api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildCacheStore(cfg config.Config) (kvstore.Store, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendFile:
		kv, err := kvstore.NewFile(cfg.CacheDir)
		return kv, nil, err
	case config.CacheBackendSQLite:
		kv, err := kvstore.OpenSQLite(cfg.CacheDBPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	default:
		return kvstore.NewMemory(), nil, nil
	}
}
