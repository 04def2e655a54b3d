package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-ingest/internal/domain/importer"
	"github.com/FACorreiaa/invoice-ingest/internal/domain/invoices"
	"github.com/FACorreiaa/invoice-ingest/internal/domain/matching"
	"github.com/FACorreiaa/invoice-ingest/pkg/config"
	"github.com/FACorreiaa/invoice-ingest/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Pool   *pgxpool.Pool
	Logger *slog.Logger

	// Repositories
	CatalogRepo *matching.CatalogRepository
	InvoiceRepo *invoices.Repository
	ImportRepo  *importer.Repository

	// Services
	Classifier     *extraction.Classifier
	Provider       extraction.ContentProvider
	Matcher        *matching.Matcher
	InvoiceService *invoices.Service
	ImportService  *importer.Service
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase connects the pool and runs migrations.
func (d *Dependencies) initDatabase(ctx context.Context) error {
	if err := db.Migrate(d.Config.Database); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, d.Config.Database)
	if err != nil {
		return err
	}
	d.Pool = pool

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices wires the extraction, matching, import and processing layers.
func (d *Dependencies) initServices() error {
	d.CatalogRepo = matching.NewCatalogRepository(d.Pool)
	d.InvoiceRepo = invoices.NewRepository(d.Pool)
	d.ImportRepo = importer.NewRepository(d.Pool)

	d.Classifier = extraction.NewClassifier(extraction.DefaultRegistrations())
	d.Provider = extraction.NewFileProvider(d.Config.Documents.Root)
	d.Matcher = matching.NewMatcher(d.CatalogRepo, d.Logger)

	d.InvoiceService = invoices.NewService(
		d.Pool, d.InvoiceRepo, d.Classifier, d.Provider, d.Matcher, d.Logger)
	d.ImportService = importer.NewService(
		d.ImportRepo, d.CatalogRepo, importer.ParserConfig{}, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Pool != nil {
		d.Pool.Close()
	}
	d.Logger.Info("cleanup completed")
}
