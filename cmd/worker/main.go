// The worker binary consumes the activity stream and maintains the read
// models: the feed, the search indexes and the galaxy map cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appactivity "github.com/nebulahq/hacknebula/internal/application/activity"
	"github.com/nebulahq/hacknebula/internal/application/galaxymap"
	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/feed"
	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/internal/domain/planets"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres/repositories"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/redis"
	"github.com/nebulahq/hacknebula/internal/infrastructure/messaging/kafka"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/internal/infrastructure/search/opensearch"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.MustNew(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting worker",
		logging.String("version", cfg.App.Version),
		logging.String("group", cfg.Kafka.ConsumerGroup),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	var indexer appactivity.Indexer
	searchClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
	if err != nil {
		logger.Warn("search cluster unavailable, indexing disabled", logging.Err(err))
	} else {
		osIndexer := opensearch.NewIndexer(searchClient, logger)
		if err := osIndexer.EnsureIndexes(ctx); err != nil {
			logger.Warn("ensure indexes failed", logging.Err(err))
		}
		indexer = osIndexer
	}

	conn := db.Conn()
	posts := feed.NewService(repositories.NewFeedRepository(conn), nil, logger)
	lands := planets.NewService(repositories.NewPlanetsRepository(conn), redis.NewQuotaCounter(redisClient), nil, nil, logger)
	judges := judging.NewService(repositories.NewJudgingRepository(conn), nil, judging.Window{}, nil, logger)

	mapCache := redis.NewCache(redisClient, logger, redis.WithDefaultTTL(cfg.GalaxyMap.CacheTTL))
	maps := galaxymap.NewService(lands, judges, mapCache, cfg.GalaxyMap, cfg.App.Name, nil, logger)

	projector := appactivity.NewProjector(posts, indexer, maps, logger)

	go warmMapLoop(ctx, redisClient, maps, cfg.GalaxyMap.CacheTTL, logger)

	consumer := kafka.NewConsumer(cfg.Kafka, logger)
	defer consumer.Close()

	logger.Info("consuming activity events", logging.String("topic", cfg.Kafka.ActivityTopic))
	if err := consumer.Run(ctx, projector.Handle); err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	logger.Info("worker stopped")
	return nil
}

// warmMapLoop recomputes the galaxy map ahead of cache expiry so API
// requests rarely pay for a layout run.  A redis lock keeps a single
// worker instance warming per interval.
func warmMapLoop(ctx context.Context, client *redis.Client, maps *galaxymap.Service, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		lock := redis.NewLock(client, "galaxymap:warm", interval)
		if err := lock.Acquire(ctx); err != nil {
			if err != redis.ErrLockNotAcquired {
				logger.Warn("map warm lock failed", logging.Err(err))
			}
			continue
		}
		if _, err := maps.MapTeams(ctx, ""); err != nil {
			logger.Warn("map warm failed", logging.Err(err))
		}
		if err := lock.Release(ctx); err != nil && err != redis.ErrLockNotHeld {
			logger.Warn("map warm lock release failed", logging.Err(err))
		}
	}
}
