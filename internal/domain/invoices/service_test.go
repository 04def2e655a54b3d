package invoices

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-ingest/internal/domain/matching"
)

// stubCatalog resolves every description to one fixed item via exact name,
// or to nothing when empty.
type stubCatalog struct {
	item *matching.CatalogItem
}

func (s *stubCatalog) FindByIdentifier(context.Context, uuid.UUID, string) (*matching.CatalogItem, error) {
	return nil, nil
}

func (s *stubCatalog) FindByNameExact(context.Context, string) ([]matching.CatalogItem, error) {
	if s.item == nil {
		return nil, nil
	}
	return []matching.CatalogItem{*s.item}, nil
}

func (s *stubCatalog) FindByNameContains(context.Context, string) ([]matching.CatalogItem, error) {
	return nil, nil
}

func (s *stubCatalog) FindByAllKeywords(context.Context, []string) ([]matching.CatalogItem, error) {
	return nil, nil
}

func (s *stubCatalog) FindSupplierLink(context.Context, uuid.UUID, uuid.UUID) (*matching.SupplierLink, error) {
	return nil, nil
}

func (s *stubCatalog) ListItems(context.Context) ([]matching.CatalogItem, error) {
	if s.item == nil {
		return nil, nil
	}
	return []matching.CatalogItem{*s.item}, nil
}

func invoiceRow(id, supplierID uuid.UUID, supplier string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "invoice_number", "supplier_id", "name", "document_path",
		"status", "total_net_amount", "total_vat_amount", "invoice_total",
		"error_message", "created_at", "processed_at",
	}).AddRow(
		id, "INV-1", supplierID, supplier, "doc.txt",
		StatusPending, decimal.Zero, decimal.Zero, decimal.Zero,
		"", time.Now(), nil,
	)
}

func newTestService(t *testing.T, catalog matching.Catalog, doc extraction.Document) (pgxmock.PgxPoolIface, *Service) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.DiscardHandler)
	svc := NewService(
		mock,
		NewRepository(mock),
		extraction.NewClassifier(extraction.DefaultRegistrations()),
		extraction.StaticProvider{"doc.txt": doc},
		matching.NewMatcher(catalog, logger),
		logger,
	)
	return mock, svc
}

func TestService_Process(t *testing.T) {
	ctx := context.Background()

	doc := extraction.Document{Pages: []extraction.RawPage{{Lines: []string{
		"Lip Gloss Shade A",
		"12345678901234",
		"3",
		"£2.50",
		"£7.50",
	}}}}

	t.Run("extracts, matches and links in one transaction", func(t *testing.T) {
		invoiceID := uuid.New()
		supplierID := uuid.New()
		itemID := uuid.New()
		catalogItem := &matching.CatalogItem{ID: uuid.New(), Name: "Lip Gloss Shade A"}

		mock, svc := newTestService(t, &stubCatalog{item: catalogItem}, doc)

		mock.ExpectQuery(`SELECT .+ FROM invoices i`).
			WithArgs(invoiceID).
			WillReturnRows(invoiceRow(invoiceID, supplierID, "Very"))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE invoices\s+SET status = \$2`).
			WithArgs(invoiceID, StatusCompleted, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(`INSERT INTO invoice_items`).
			WithArgs(invoiceID, "Lip Gloss Shade A", "12345678901234",
				3, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(itemID))
		mock.ExpectExec(`INSERT INTO invoice_processing_log`).
			WithArgs(invoiceID, ActionExtract, "Extracted 1 items").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE invoice_items SET item_id`).
			WithArgs(itemID, catalogItem.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO supplier_links`).
			WithArgs(catalogItem.ID, supplierID, "12345678901234").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO invoice_processing_log`).
			WithArgs(invoiceID, ActionMatch, "Matched 1 of 1 items").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		err := svc.Process(ctx, invoiceID, ProcessOptions{AutoMatch: true})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown supplier marks the invoice failed", func(t *testing.T) {
		invoiceID := uuid.New()
		supplierID := uuid.New()

		mock, svc := newTestService(t, &stubCatalog{}, doc)

		mock.ExpectQuery(`SELECT .+ FROM invoices i`).
			WithArgs(invoiceID).
			WillReturnRows(invoiceRow(invoiceID, supplierID, "Acme Widgets"))
		mock.ExpectExec(`UPDATE invoices SET status = \$2, error_message`).
			WithArgs(invoiceID, StatusFailed, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO invoice_processing_log`).
			WithArgs(invoiceID, ActionError, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := svc.Process(ctx, invoiceID, ProcessOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, extraction.ErrUnknownFormat)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
