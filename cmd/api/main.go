package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bot-metrics-service/internal/config"
	"bot-metrics-service/internal/logger"

	recordsHttp "bot-metrics-service/internal/records/adapters/http/fiber"
	recordsRepoPg "bot-metrics-service/internal/records/adapters/postgres"
	recordsRedis "bot-metrics-service/internal/records/adapters/redis"
	"bot-metrics-service/internal/records/adapters/sheets"
	recordsDomain "bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"
	recordsUsecase "bot-metrics-service/internal/records/core/usecase"

	metricsHttp "bot-metrics-service/internal/metrics/adapters/http/fiber"
	metricsUsecase "bot-metrics-service/internal/metrics/core/usecase"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "bot-metrics-service/docs"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	// Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log, err := logger.InitLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		logrus.Fatalf("failed to init logger: %v", err)
	}

	mapping, err := recordsDomain.ParseColumnMapping(cfg.Columns)
	if err != nil {
		log.Fatalf("invalid column mapping: %v", err)
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// snapshot reads fall back to postgres; saved selections are unavailable
		log.WithError(err).Warn("redis unreachable at startup")
	}

	// Repositories
	snapshotRepository := recordsRepoPg.NewSnapshotRepository(recordsRepoPg.NewSQLDB(db), cfg.Source.SheetKey)
	if err := snapshotRepository.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	snapshotCache := recordsRedis.NewSnapshotCache(
		rdb, snapshotRepository, snapshotRepository,
		cfg.Source.SheetKey, cfg.Redis.SnapshotTTL, log,
	)
	selectionStore := recordsRedis.NewSelectionStore(rdb)

	var upstream ports.SnapshotReaderPort
	if cfg.Source.CSVURL != "" {
		upstream = sheets.NewCSVSource(cfg.Source.CSVURL, cfg.Source.SheetKey, nil)
	}

	// Usecases
	loadRecordsUC := recordsUsecase.NewLoadRecordsUseCase(snapshotCache, recordsUsecase.LoadRecordsConfig{
		Mapping: mapping,
		Normalize: recordsUsecase.NormalizeOptions{
			DateLayout:   cfg.Source.DateLayout,
			DefaultGroup: cfg.Source.DefaultGroup,
		},
	}, log)
	importSnapshotUC := recordsUsecase.NewImportSnapshotUseCase(
		cfg.Source.SheetKey, snapshotCache, upstream, cfg.Source.SyncEvery, log,
	)
	selectionUC := recordsUsecase.NewSelectionUseCase(selectionStore, cfg.Redis.SelectionTTL)

	getSummaryUC := metricsUsecase.NewGetSummaryUseCase(loadRecordsUC)
	getRankingsUC := metricsUsecase.NewGetRankingsUseCase(loadRecordsUC)
	getTrendUC := metricsUsecase.NewGetTrendUseCase(loadRecordsUC)
	getOverviewUC := metricsUsecase.NewGetOverviewUseCase(loadRecordsUC)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	recordsHttp.NewRecordsHandler(importSnapshotUC, loadRecordsUC, selectionUC).Register(app)
	metricsHttp.NewMetricsHandler(getSummaryUC, getRankingsUC, getTrendUC, getOverviewUC).Register(app)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if upstream != nil && cfg.Source.RefreshInterval > 0 {
		go refreshLoop(ctx, importSnapshotUC, cfg.Source.RefreshInterval, log)
	}

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.WithError(err).Error("fiber stopped")
		}
	}()

	log.WithField("addr", cfg.Server.Addr).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("fiber shutdown error")
	}

	log.Info("server exiting")
}

type syncer interface {
	Sync(ctx context.Context) (recordsUsecase.ImportSnapshotResult, error)
}

// refreshLoop pulls the upstream sheet on a fixed interval until ctx ends.
func refreshLoop(ctx context.Context, s syncer, every time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.Sync(ctx)
			switch {
			case errors.Is(err, recordsDomain.ErrSyncThrottled):
				log.Debug("scheduled sync skipped: throttled")
			case err != nil:
				log.WithError(err).Warn("scheduled sync failed")
			default:
				log.WithFields(logrus.Fields{"import_id": res.ImportID, "rows": res.Rows}).Info("scheduled sync done")
			}
		}
	}
}
