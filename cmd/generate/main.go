package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"backend-tripgallery/internal/artifact"
	"backend-tripgallery/internal/config"
	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/db"
	"backend-tripgallery/internal/events"
	"backend-tripgallery/internal/pipeline"
	"backend-tripgallery/internal/routestats"
)

const (
	exitOK      = 0
	exitFatal   = 1
	exitPartial = 2
)

var exitFn = os.Exit

type generateDeps struct {
	loadConfig   func() config.Config
	connectRedis func(config.Config) *redis.Client
}

func defaultDeps() generateDeps {
	return generateDeps{
		loadConfig:   config.Load,
		connectRedis: db.ConnectRedis,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := realMain(ctx, defaultDeps())
	stop()
	exitFn(code)
}

func realMain(ctx context.Context, deps generateDeps) int {
	cfg := deps.loadConfig()

	rdb := deps.connectRedis(cfg)
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, running without lock: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	return generate(ctx, cfg, rdb)
}

// generate regenerates every derived artifact once and maps the outcome to an
// exit code.
func generate(ctx context.Context, cfg config.Config, rdb *redis.Client) int {
	policy, err := routestats.ParseElevationPolicy(cfg.ElevationPolicy)
	if err != nil {
		log.Printf("generate: %v", err)
		return exitFatal
	}

	hub, err := events.NewHub(ctx, rdb)
	if err != nil {
		log.Printf("generate: %v", err)
		return exitFatal
	}

	p := pipeline.New(content.NewStore(cfg.ContentDir), artifact.NewWriter(cfg.DataDir, cfg.DataURLPrefix), policy)
	report, err := pipeline.NewCoordinator(p, rdb, hub).Regenerate(ctx)

	var partial *pipeline.PartialFailure
	switch {
	case errors.As(err, &partial):
		log.Printf("generate: %d trips, %d members, failed: %v", report.Trips, report.Members, partial.Slugs())
		return exitPartial
	case err != nil:
		log.Printf("generate: %v", err)
		return exitFatal
	}

	log.Printf("generate: %d trips, %d members in %s", report.Trips, report.Members, report.Duration)
	return exitOK
}
