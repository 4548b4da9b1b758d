package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"aircheck/internal/archive"
	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/daemon"
	"aircheck/internal/logging"
	"aircheck/internal/recorder"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog", logging.Error(err))
		return
	}

	gateway, err := archive.NewStore(cfg.Paths.ArchiveDir, store, logger)
	if err != nil {
		store.Close()
		logger.Error("init archive", logging.Error(err))
		return
	}

	supervisor := recorder.NewSupervisor(cfg, store, gateway, logger)

	d, err := daemon.New(cfg, store, logger, supervisor)
	if err != nil {
		store.Close()
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("aircheckd shutting down")
}
