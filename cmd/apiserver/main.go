// The apiserver binary runs the HackNebula HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nebulahq/hacknebula/internal/application/galaxymap"
	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/feed"
	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/internal/domain/planets"
	"github.com/nebulahq/hacknebula/internal/domain/schedule"
	"github.com/nebulahq/hacknebula/internal/domain/submission"
	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres/repositories"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/redis"
	"github.com/nebulahq/hacknebula/internal/infrastructure/messaging/kafka"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/prometheus"
	"github.com/nebulahq/hacknebula/internal/infrastructure/search/opensearch"
	"github.com/nebulahq/hacknebula/internal/infrastructure/storage/minio"
	httpserver "github.com/nebulahq/hacknebula/internal/interfaces/http"
	"github.com/nebulahq/hacknebula/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
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

	logger.Info("starting apiserver",
		logging.String("version", cfg.App.Version),
		logging.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infrastructure.
	db, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	storageClient, err := minio.NewClient(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("connect object storage: %w", err)
	}
	if err := storageClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	searchClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
	if err != nil {
		logger.Warn("search cluster unavailable, /search is degraded", logging.Err(err))
	}

	collector := prometheus.NewCollector()
	metrics := prometheus.NewAppMetrics(collector)

	// Repositories.
	conn := db.Conn()
	teamRepo := repositories.NewTeamRepository(conn)
	submissionRepo := repositories.NewSubmissionRepository(conn)
	judgingRepo := repositories.NewJudgingRepository(conn)
	planetsRepo := repositories.NewPlanetsRepository(conn)
	scheduleRepo := repositories.NewScheduleRepository(conn)
	feedRepo := repositories.NewFeedRepository(conn)

	// Domain services.
	membership := teamMembership{teams: teamRepo}
	teams := team.NewService(teamRepo, producer, logger)
	submissions := submission.NewService(submissionRepo, minio.NewBlobStore(storageClient), membership, producer, logger, submission.Options{
		MaxAssetSize: cfg.Storage.MaxAssetSize,
		URLExpiry:    cfg.Storage.PresignedExpiry,
	})
	judges := judging.NewService(judgingRepo, nil, judging.Window{}, producer, logger)
	lands := planets.NewService(planetsRepo, redis.NewQuotaCounter(redisClient), membership, producer, logger)
	sessions := schedule.NewService(scheduleRepo, producer, logger)
	posts := feed.NewService(feedRepo, producer, logger)

	mapCache := redis.NewCache(redisClient, logger, redis.WithDefaultTTL(cfg.GalaxyMap.CacheTTL))
	maps := galaxymap.NewService(lands, judges, mapCache, cfg.GalaxyMap, cfg.App.Name, metrics, logger)

	if configPath != "" {
		if err := config.Watch(configPath, func(next *config.Config) {
			maps.Reconfigure(ctx, next.GalaxyMap)
		}); err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	var searcher *opensearch.Searcher
	if searchClient != nil {
		searcher = opensearch.NewSearcher(searchClient, logger)
	}

	// HTTP layer.
	h := httpserver.Handlers{
		Health: handlers.NewHealthHandler(cfg.App.Version,
			handlers.Checker{Name: "postgres", Check: db.Ping},
			handlers.Checker{Name: "redis", Check: redisClient.Ping},
		),
		Team:       handlers.NewTeamHandler(teams),
		Submission: handlers.NewSubmissionHandler(submissions),
		Judging:    handlers.NewJudgingHandler(judges),
		Planets:    handlers.NewPlanetsHandler(lands, teams, maps),
		Schedule:   handlers.NewScheduleHandler(sessions),
		Feed:       handlers.NewFeedHandler(posts, searcher),
	}

	var routerCollector *prometheus.Collector
	if cfg.Metrics.Enabled {
		routerCollector = collector
	}
	router := httpserver.NewRouter(cfg.Server, h, logger, routerCollector, metrics)
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", logging.Err(err))
	}
	logger.Info("apiserver stopped")
	return nil
}
