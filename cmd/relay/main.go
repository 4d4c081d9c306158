package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"commerce-events-go/internal/commerce"
	"commerce-events-go/internal/config"
	"commerce-events-go/internal/constants"
	"commerce-events-go/internal/dedup"
	"commerce-events-go/internal/logging"
	tracing "commerce-events-go/internal/monitoring/tracing"
	srv "commerce-events-go/internal/server"
	"commerce-events-go/internal/store"
	"commerce-events-go/internal/version"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *debug {
		cfg.Security.Debug = true
	}

	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	traceShutdown, err := tracing.Init(context.Background())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	if traceShutdown != nil {
		defer func() {
			if err := traceShutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to shutdown tracing")
			}
		}()
	}

	log.Infof("Starting commerce-events relay %s (config: %s)", version.Version, *configPath)

	// Logging settings follow the config file live; anything wired into the
	// engine needs a restart to change.
	watcher := config.NewWatcher(*configPath, func(newCfg *config.Config) {
		if *debug {
			newCfg.Security.Debug = true
		}
		if err := logging.Setup(newCfg); err != nil {
			log.WithError(err).Warn("failed to apply reloaded logging configuration")
		}
	})
	watcher.Start()
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := buildStore(ctx, cfg)
	if err != nil {
		// A dead redis must not keep the action host down; the in-memory
		// store still protects a single instance.
		log.WithError(err).Warn("store backend initialization failed; falling back to memory")
		kv = store.NewMemoryStore()
	}
	defer func() {
		if closer, ok := kv.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	backOffice := commerce.FromConfig(cfg.Commerce, commerce.WithTokenCache(kv))

	engine := srv.BuildEngine(cfg, srv.Dependencies{
		Forwarder:   backOffice,
		LoopBreaker: dedup.NewLoopBreaker(kv),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Infof("Webhook action host listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("webhook server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown incomplete")
	}
	log.Info("Shutdown complete")
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		rs, err := store.NewRedisStore(cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB, cfg.Store.Prefix)
		if err != nil {
			return nil, err
		}
		if err := rs.Initialize(ctx); err != nil {
			return nil, err
		}
		log.Infof("Using redis store at %s", cfg.Store.Addr)
		return rs, nil
	default:
		log.Info("Using in-memory store")
		return store.NewMemoryStore(), nil
	}
}
