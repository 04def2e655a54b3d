// Command ingest processes supplier invoices: it reconstructs product line
// items from rendered documents, resolves them against the catalog, and can
// seed the catalog from supplier product lists.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/invoices"
	"github.com/FACorreiaa/invoice-ingest/pkg/config"
	"github.com/FACorreiaa/invoice-ingest/pkg/metrics"
)

func main() {
	var (
		invoiceID   = flag.String("invoice-id", "", "process a single invoice by id")
		pendingOnly = flag.Bool("pending-only", false, "process all pending invoices")
		autoMatch   = flag.Bool("auto-match", true, "resolve extracted items against the catalog")
		importFile  = flag.String("import", "", "import a catalog file (CSV or XLSX)")
		supplier    = flag.String("supplier", "", "supplier name for -import")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *invoiceID, *pendingOnly, *autoMatch, *importFile, *supplier); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, invoiceID string, pendingOnly, autoMatch bool, importFile, supplier string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := InitDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if cfg.Observability.MetricsEnabled {
		go func() {
			if err := metrics.Serve(cfg.Observability.MetricsPort); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	opts := invoices.ProcessOptions{AutoMatch: autoMatch}

	switch {
	case importFile != "":
		if supplier == "" {
			return fmt.Errorf("-import requires -supplier")
		}
		supplierID, err := deps.ImportRepo.EnsureSupplier(ctx, supplier)
		if err != nil {
			return fmt.Errorf("ensure supplier: %w", err)
		}
		_, err = deps.ImportService.ImportFile(ctx, importFile, supplierID)
		return err

	case invoiceID != "":
		id, err := uuid.Parse(invoiceID)
		if err != nil {
			return fmt.Errorf("invalid invoice id %q: %w", invoiceID, err)
		}
		return deps.InvoiceService.Process(ctx, id, opts)

	case pendingOnly:
		return deps.InvoiceService.ProcessPending(ctx, opts)

	default:
		return fmt.Errorf("nothing to do: pass -invoice-id, -pending-only or -import")
	}
}
