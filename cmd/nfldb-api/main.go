package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/api/rest"
	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/config"
	"github.com/gridironlabs/nfldb/internal/etl"
	"github.com/gridironlabs/nfldb/internal/provider"
	"github.com/gridironlabs/nfldb/internal/scheduler"
	"github.com/gridironlabs/nfldb/internal/store"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	log := logger.WithField("component", "api")

	dsn, err := cfg.RequireDatabaseURL()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	db, err := store.NewDatabase(dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to database")

	// Redis is optional: without it the API serves straight from
	// Postgres.
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, serving uncached")
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("connected to redis")
		}
	}

	// The in-process scheduler is optional too; production setups may
	// prefer running the CLI from cron.
	var orchestrator *scheduler.Orchestrator
	if cfg.RefreshCron != "" {
		loader, err := buildLoader(cfg, db, log)
		if err != nil {
			log.WithError(err).Fatal("failed to build loader")
		}
		orchestrator = scheduler.NewOrchestrator(loader, cfg.RefreshCron, log)
		if err := orchestrator.Start(); err != nil {
			log.WithError(err).Fatal("failed to start scheduler")
		}
	}

	server := rest.NewServer(cfg.APIPort, db, redisCache, cfg.CORSOrigin, log)
	go func() {
		log.WithField("port", cfg.APIPort).Info("REST API listening")
		if err := server.Start(); err != nil {
			log.WithError(err).Error("REST server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	if orchestrator != nil {
		orchestrator.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("stopped")
}

func buildLoader(cfg config.Config, db *store.Database, log *logrus.Entry) (*etl.Loader, error) {
	fetcher := provider.NewFetcher(cfg.FetchTimeout)
	snapshots, err := provider.NewSnapshotCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	chain := provider.NewWeeklyChain(snapshots, log,
		&provider.ReleaseProvider{BaseURL: cfg.PlayerStatsURL, Fetcher: fetcher},
		&provider.MirrorProvider{BaseURL: cfg.MirrorURL, Fetcher: fetcher},
		&provider.ReleaseFallbackProvider{BaseURL: cfg.PlayerStatsURL, Fetcher: fetcher},
	)
	schedule := &provider.ScheduleSource{URL: cfg.ScheduleURL, Fetcher: fetcher, Cache: snapshots, Log: log}
	teams := &provider.TeamSource{URL: cfg.TeamsURL, Fetcher: fetcher, Cache: snapshots}

	return etl.NewLoader(db, chain, schedule, teams, log), nil
}
