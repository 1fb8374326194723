package main

import (
	"log/slog"

	"github.com/ledgerlens/statement-parser/internal/domain/statement/extract"
	"github.com/ledgerlens/statement-parser/internal/domain/statement/handler"
	"github.com/ledgerlens/statement-parser/internal/domain/statement/service"
	"github.com/ledgerlens/statement-parser/pkg/config"
	"github.com/ledgerlens/statement-parser/pkg/cron"
	"github.com/ledgerlens/statement-parser/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Metrics          *metrics.Metrics
	Extractor        *extract.Engine
	StatementService *service.Service
	StatementHandler *handler.StatementHandler
	Scheduler        *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initServices initializes the extraction engine and the parsing service
func (d *Dependencies) initServices() {
	if d.Config.Observability.MetricsEnabled {
		d.Metrics = metrics.New()
	}

	d.Extractor = extract.NewEngine(d.Logger, d.Config.Extraction.MinConfidence)
	d.StatementService = service.New(d.Extractor, d.Logger, d.Metrics, d.Config.Cache.TTL)
	d.Scheduler = cron.NewScheduler(d.StatementService, d.Config.Cache.SweepSchedule, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.StatementHandler = handler.NewStatementHandler(d.StatementService, d.Logger, d.Config.Server.MaxUploadBytes)

	d.Logger.Info("handlers initialized")
}

// Cleanup stops background jobs
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	d.Logger.Info("cleanup completed")
}
