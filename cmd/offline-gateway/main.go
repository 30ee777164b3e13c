package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"customer-backend/cachestore"
	"customer-backend/gateway"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func openStore(ctx context.Context, cfg *gateway.Config, logger zerolog.Logger) (cachestore.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		store, err := cachestore.NewRedisStore(ctx, &cachestore.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "leveldb":
		store, err := cachestore.NewLevelDBStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return cachestore.NewInMemoryStore(), func() {}, nil
	}
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", getenvDefault("GATEWAY_CONFIG", "gateway.yaml"), "path to gateway.yaml")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := gateway.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open cache store: %v", err)
	}
	defer closeStore()

	// Install, then activate. A failed install leaves old generations in
	// place; the next deploy retries from scratch.
	lifecycle, err := gateway.NewLifecycleManager(cfg, store, nil, logger)
	if err != nil {
		log.Fatalf("lifecycle init: %v", err)
	}
	if err := lifecycle.Install(ctx); err != nil {
		log.Fatalf("install: %v", err)
	}
	if err := lifecycle.Activate(ctx); err != nil {
		log.Fatalf("activate: %v", err)
	}

	gw, err := gateway.New(cfg, store, nil, logger)
	if err != nil {
		log.Fatalf("gateway init: %v", err)
	}

	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		log.Fatalf("parse upstream: %v", err)
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		Transport: gw,
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           proxy,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Listen).Str("upstream", cfg.Upstream).Str("cache", cfg.CacheName).Msg("Offline gateway serving")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Gateway forced to shutdown: %v", err)
	}
}
