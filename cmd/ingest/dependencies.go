package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/metrics"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Observability, nil when metrics are disabled
	Registry *prometheus.Registry
	Metrics  *metrics.Observer

	Dispatcher    *parser.Dispatcher
	ImportService *service.ImportService

	// Archive, nil unless requested
	FileStorage storage.Storage
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger, archive bool) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if archive {
		if err := deps.initStorage(); err != nil {
			return nil, fmt.Errorf("failed to init storage: %w", err)
		}
	}

	logger.Debug("all dependencies initialized successfully")

	return deps, nil
}

func (d *Dependencies) initMetrics() error {
	if !d.Config.Observability.MetricsEnabled {
		return nil
	}

	d.Registry = prometheus.NewRegistry()
	observer, err := metrics.NewObserver(d.Registry)
	if err != nil {
		return err
	}
	d.Metrics = observer
	return nil
}

func (d *Dependencies) initServices() error {
	messages, err := d.Config.Messages()
	if err != nil {
		return err
	}

	observers := statement.MultiObserver{statement.NewSlogObserver(d.Logger)}
	if d.Metrics != nil {
		observers = append(observers, d.Metrics)
	}

	d.Dispatcher = parser.New(parser.Options{
		Messages: messages,
		Observer: observers,
	})

	d.ImportService = service.NewImportService(d.Dispatcher, d.Logger).
		WithWorkers(d.Config.Parser.Workers)
	if d.Metrics != nil {
		d.ImportService.WithDurationObserver(d.Metrics)
	}

	d.Logger.Debug("services initialized", "locale", messages.Name())
	return nil
}

func (d *Dependencies) initStorage() error {
	fileStorage, err := storage.New(&storage.Config{
		Type:      storage.StorageTypeLocal,
		LocalPath: d.Config.Storage.LocalPath,
	})
	if err != nil {
		return err
	}
	d.FileStorage = fileStorage
	d.Logger.Debug("statement archive ready", "path", d.Config.Storage.LocalPath)
	return nil
}

// FlushMetrics writes the registry to the configured textfile.
func (d *Dependencies) FlushMetrics() error {
	if d.Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(d.Config.Observability.MetricsTextfile, d.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
