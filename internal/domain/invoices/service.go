package invoices

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-ingest/internal/domain/matching"
	"github.com/FACorreiaa/invoice-ingest/pkg/metrics"
	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// ProcessOptions controls optional stages of the pipeline.
type ProcessOptions struct {
	// AutoMatch resolves extracted items against the catalog after
	// extraction.
	AutoMatch bool
}

// Service drives the per-document pipeline.
type Service struct {
	db         DB
	repo       *Repository
	classifier *extraction.Classifier
	provider   extraction.ContentProvider
	matcher    *matching.Matcher
	logger     *slog.Logger
}

// NewService wires the processing pipeline.
func NewService(db DB, repo *Repository, classifier *extraction.Classifier, provider extraction.ContentProvider, matcher *matching.Matcher, logger *slog.Logger) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		classifier: classifier,
		provider:   provider,
		matcher:    matcher,
		logger:     logger.With("component", "invoice-service"),
	}
}

// ProcessPending runs the pipeline over every pending invoice. Individual
// document failures are recorded on the invoice and do not stop the batch.
func (s *Service) ProcessPending(ctx context.Context, opts ProcessOptions) error {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending invoices: %w", err)
	}

	s.logger.Info("processing pending invoices", "count", len(pending))
	for _, inv := range pending {
		if err := s.Process(ctx, inv.ID, opts); err != nil {
			s.logger.Error("invoice failed",
				"invoice", inv.InvoiceNumber, "error", err)
		}
	}
	return nil
}

// Process runs extraction (and optionally matching) for a single invoice.
// All persistence for the document happens in one transaction; on error the
// invoice is marked failed with the message and the error is returned.
func (s *Service) Process(ctx context.Context, invoiceID uuid.UUID, opts ProcessOptions) error {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	log := s.logger.With("invoice", inv.InvoiceNumber, "supplier", inv.SupplierName)
	log.Info("processing invoice")

	result, err := s.extract(ctx, inv)
	if err != nil {
		s.fail(ctx, inv.ID, err)
		return err
	}

	if err := s.persist(ctx, inv, result, opts); err != nil {
		s.fail(ctx, inv.ID, err)
		return err
	}

	metrics.DocumentsProcessed.WithLabelValues(StatusCompleted).Inc()
	metrics.RecordsExtracted.Add(float64(len(result.Products)))
	log.Info("invoice processed",
		"products", len(result.Products),
		"total", money.NewFromDecimal(inv.InvoiceTotal, money.GBP).Display())
	return nil
}

func (s *Service) extract(ctx context.Context, inv *Invoice) (extraction.ExtractionResult, error) {
	extractor, err := s.classifier.Select(inv.SupplierName)
	if err != nil {
		return extraction.ExtractionResult{}, err
	}

	doc, err := s.provider.Document(ctx, inv.DocumentPath)
	if err != nil {
		return extraction.ExtractionResult{}, fmt.Errorf("load document: %w", err)
	}

	return extractor.Extract(doc)
}

func (s *Service) persist(ctx context.Context, inv *Invoice, result extraction.ExtractionResult, opts ProcessOptions) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	inv.TotalNetAmount = decimalOrZero(result.Metadata.TotalNetAmount)
	inv.TotalVATAmount = decimalOrZero(result.Metadata.TotalVATAmount)
	inv.InvoiceTotal = decimalOrZero(result.Metadata.InvoiceTotal)
	if err := s.repo.SaveExtraction(ctx, tx, inv); err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}

	items := make([]*InvoiceItem, 0, len(result.Products))
	for _, p := range result.Products {
		item := &InvoiceItem{
			InvoiceID:   inv.ID,
			Description: p.Description,
			SellerSKU:   p.SellerSKU,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			TotalPrice:  p.TotalPrice,
			TaxRate:     p.TaxRate,
		}
		if err := s.repo.UpsertItem(ctx, tx, item); err != nil {
			return fmt.Errorf("upsert item: %w", err)
		}
		items = append(items, item)
	}

	msg := fmt.Sprintf("Extracted %d items", len(items))
	if err := s.repo.AddLog(ctx, tx, inv.ID, ActionExtract, msg); err != nil {
		return err
	}

	if opts.AutoMatch {
		if err := s.matchItems(ctx, tx, inv, result.Products, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// matchItems resolves each unmatched item through the cascade and records
// links for identifier-bearing matches, all inside the document transaction.
func (s *Service) matchItems(ctx context.Context, tx pgx.Tx, inv *Invoice, products []extraction.ProductRecord, items []*InvoiceItem) error {
	matched := 0
	for i, item := range items {
		if item.Matched {
			continue
		}

		outcome, err := s.matcher.Match(ctx, products[i], inv.SupplierID)
		if err != nil {
			return fmt.Errorf("match %q: %w", item.Description, err)
		}
		if outcome.Item == nil {
			s.logSuggestions(ctx, products[i])
			continue
		}

		if err := s.repo.MarkItemMatched(ctx, tx, item.ID, outcome.Item.ID); err != nil {
			return err
		}
		if item.SellerSKU != "" {
			if err := s.repo.CreateSupplierLink(ctx, tx, outcome.Item.ID, inv.SupplierID, item.SellerSKU); err != nil {
				return err
			}
		}
		metrics.ItemsMatched.WithLabelValues(outcome.Strategy.String()).Inc()
		matched++
	}

	msg := fmt.Sprintf("Matched %d of %d items", matched, len(items))
	return s.repo.AddLog(ctx, tx, inv.ID, ActionMatch, msg)
}

// logSuggestions surfaces the closest catalog candidates for an unmatched
// record so an operator can resolve it by hand.
func (s *Service) logSuggestions(ctx context.Context, record extraction.ProductRecord) {
	suggestions, err := s.matcher.Suggest(ctx, record, 3)
	if err != nil {
		s.logger.Warn("suggestion ranking failed",
			"description", record.Description, "error", err)
		return
	}

	names := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		names = append(names, sg.Item.Name)
	}
	s.logger.Info("item unmatched",
		"description", record.Description, "suggestions", names)
}

func (s *Service) fail(ctx context.Context, invoiceID uuid.UUID, cause error) {
	metrics.DocumentsProcessed.WithLabelValues(StatusFailed).Inc()
	if err := s.repo.MarkFailed(ctx, invoiceID, cause.Error()); err != nil {
		s.logger.Error("mark failed", "invoice", invoiceID, "error", err)
	}
	logErr := s.repo.AddLog(ctx, s.repo.Pool(), invoiceID, ActionError,
		fmt.Sprintf("Processing failed: %s", cause))
	if logErr != nil {
		s.logger.Error("write processing log", "invoice", invoiceID, "error", logErr)
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
