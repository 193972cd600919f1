package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	incidenttracker "tally/contexts/field-operations/incident-tracker"
	incidentpostgres "tally/contexts/field-operations/incident-tracker/adapters/postgres"
	officerregistry "tally/contexts/field-operations/officer-registry"
	officerpostgres "tally/contexts/field-operations/officer-registry/adapters/postgres"
	aggregationengine "tally/contexts/results-collation/aggregation-engine"
	aggregationpostgres "tally/contexts/results-collation/aggregation-engine/adapters/postgres"
	aggregationworkers "tally/contexts/results-collation/aggregation-engine/application/workers"
	dashboardservice "tally/contexts/results-collation/dashboard-service"
	dashboardpostgres "tally/contexts/results-collation/dashboard-service/adapters/postgres"
	hierarchyindex "tally/contexts/results-collation/hierarchy-index"
	hierarchymemory "tally/contexts/results-collation/hierarchy-index/adapters/memory"
	hierarchypostgres "tally/contexts/results-collation/hierarchy-index/adapters/postgres"
	resultsheetservice "tally/contexts/results-collation/result-sheet-service"
	sheetpostgres "tally/contexts/results-collation/result-sheet-service/adapters/postgres"
	sheetworkers "tally/contexts/results-collation/result-sheet-service/application/workers"
	"tally/internal/platform/config"
	"tally/internal/platform/db"
	"tally/internal/platform/httpserver"
	"tally/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	feedRelay       sheetworkers.FeedRelay
	recompute       aggregationworkers.RecomputeConsumer
	enableRelay     bool
	enableRecompute bool
	pollInterval    time.Duration
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if cfg.ElectionID == "" {
		return nil, errors.New("ELECTION_ID is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	loader := hierarchypostgres.NewRepository(pg.DB, logger)
	nodes, err := loader.LoadNodes(context.Background(), cfg.ElectionID)
	if err != nil {
		return nil, err
	}
	tree, err := hierarchymemory.NewStore(nodes)
	if err != nil {
		return nil, err
	}
	hierarchyModule := hierarchyindex.NewModule(hierarchyindex.Dependencies{
		Tree:   tree,
		Logger: logger,
	})

	sheetRepo := sheetpostgres.NewRepository(pg.DB, logger)
	sheetsModule := resultsheetservice.NewModule(resultsheetservice.Dependencies{
		Sheets: sheetRepo,
		Clock:  sheetpostgres.SystemClock{},
		IDGen:  sheetpostgres.UUIDGenerator{},
		Logger: logger,
	})

	aggregationRepo := aggregationpostgres.NewRepository(pg.DB, logger)
	aggregationModule := aggregationengine.NewModule(aggregationengine.Dependencies{
		Hierarchy: aggregationRepo,
		Sheets:    aggregationRepo,
		Writer:    aggregationRepo,
		Clock:     aggregationpostgres.SystemClock{},
		Logger:    logger,
	})

	dashboardModule := dashboardservice.NewModule(dashboardservice.Dependencies{
		Repo:   dashboardpostgres.NewRepository(pg.DB, logger),
		Logger: logger,
	})

	officerRepo := officerpostgres.NewRepository(pg.DB, logger)
	officersModule := officerregistry.NewModule(officerregistry.Dependencies{
		Officers:    officerRepo,
		Assignments: officerRepo,
		Clock:       officerpostgres.SystemClock{},
		IDGen:       officerpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	incidentsModule := incidenttracker.NewModule(incidenttracker.Dependencies{
		Incidents: incidentpostgres.NewRepository(pg.DB, logger),
		Clock:     incidentpostgres.SystemClock{},
		IDGen:     incidentpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(
		hierarchyModule,
		sheetsModule,
		aggregationModule,
		dashboardModule,
		officersModule,
		incidentsModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	sheetRepo := sheetpostgres.NewRepository(pg.DB, logger)
	feedRelay := resultsheetservice.NewFeedRelay(sheetRepo, kafka, sheetpostgres.SystemClock{}, logger)
	feedRelay.BatchSize = cfg.FeedRelayBatchSize

	aggregationRepo := aggregationpostgres.NewRepository(pg.DB, logger)
	aggregationModule := aggregationengine.NewModule(aggregationengine.Dependencies{
		Hierarchy: aggregationRepo,
		Sheets:    aggregationRepo,
		Writer:    aggregationRepo,
		Clock:     aggregationpostgres.SystemClock{},
		Logger:    logger,
	})

	return &WorkerApp{
		postgres:        pg,
		feedRelay:       feedRelay,
		recompute:       aggregationModule.NewRecomputeConsumer(kafka, "", logger),
		enableRelay:     cfg.EnableFeedRelay,
		enableRecompute: cfg.EnableAggregationRecompute,
		pollInterval:    2 * time.Second,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.enableRecompute {
		if err := w.recompute.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"feed_relay", w.enableRelay,
		"aggregation_recompute", w.enableRecompute,
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.enableRelay {
			if err := w.feedRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
