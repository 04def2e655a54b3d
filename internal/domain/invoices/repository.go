package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which keeps repository tests off a live database.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// executor is satisfied by both DB and pgx.Tx, so log and item writes can
// run inside or outside the document transaction.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository handles invoice, item and processing-log persistence.
type Repository struct {
	db DB
}

// NewRepository creates an invoice repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const invoiceColumns = `
	i.id, i.invoice_number, i.supplier_id, s.name, i.document_path, i.status,
	i.total_net_amount, i.total_vat_amount, i.invoice_total,
	i.error_message, i.created_at, i.processed_at
`

// GetInvoice loads one invoice with its supplier name.
func (r *Repository) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.id = $1
	`

	var inv Invoice
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.SupplierID, &inv.SupplierName,
		&inv.DocumentPath, &inv.Status,
		&inv.TotalNetAmount, &inv.TotalVATAmount, &inv.InvoiceTotal,
		&inv.ErrorMessage, &inv.CreatedAt, &inv.ProcessedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("invoice %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPending returns all invoices still waiting for processing, oldest
// first.
func (r *Repository) ListPending(ctx context.Context) ([]Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.status = $1
		ORDER BY i.created_at
	`

	rows, err := r.db.Query(ctx, query, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.SupplierID, &inv.SupplierName,
			&inv.DocumentPath, &inv.Status,
			&inv.TotalNetAmount, &inv.TotalVATAmount, &inv.InvoiceTotal,
			&inv.ErrorMessage, &inv.CreatedAt, &inv.ProcessedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// SaveExtraction stores the extracted totals and marks the invoice
// completed.
func (r *Repository) SaveExtraction(ctx context.Context, tx pgx.Tx, inv *Invoice) error {
	now := time.Now()
	inv.Status = StatusCompleted
	inv.ProcessedAt = &now

	query := `
		UPDATE invoices
		SET status = $2, total_net_amount = $3, total_vat_amount = $4,
		    invoice_total = $5, error_message = '', processed_at = $6
		WHERE id = $1
	`
	_, err := tx.Exec(ctx, query,
		inv.ID, inv.Status, inv.TotalNetAmount, inv.TotalVATAmount,
		inv.InvoiceTotal, *inv.ProcessedAt)
	return err
}

// MarkFailed records a processing failure. Runs outside the document
// transaction, which has been rolled back by the time this is called.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := `UPDATE invoices SET status = $2, error_message = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, StatusFailed, message)
	return err
}

// UpsertItem creates the item if absent, keyed by (invoice, seller_sku,
// description); an existing row keeps its values and only its id is loaded.
func (r *Repository) UpsertItem(ctx context.Context, tx pgx.Tx, item *InvoiceItem) error {
	insert := `
		INSERT INTO invoice_items
			(invoice_id, description, seller_sku, quantity, unit_price, total_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (invoice_id, seller_sku, description) DO NOTHING
		RETURNING id
	`
	err := tx.QueryRow(ctx, insert,
		item.InvoiceID, item.Description, item.SellerSKU,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.TaxRate,
	).Scan(&item.ID)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return err
	}

	// Row already existed; load its id (and matched state) instead.
	lookup := `
		SELECT id, item_id, matched FROM invoice_items
		WHERE invoice_id = $1 AND seller_sku = $2 AND description = $3
	`
	return tx.QueryRow(ctx, lookup, item.InvoiceID, item.SellerSKU, item.Description).
		Scan(&item.ID, &item.ItemID, &item.Matched)
}

// MarkItemMatched links an invoice item to a catalog item.
func (r *Repository) MarkItemMatched(ctx context.Context, tx pgx.Tx, itemID, catalogItemID uuid.UUID) error {
	query := `UPDATE invoice_items SET item_id = $2, matched = true WHERE id = $1`
	_, err := tx.Exec(ctx, query, itemID, catalogItemID)
	return err
}

// CreateSupplierLink persists the identifier a supplier uses for a catalog
// item, inside the document transaction. Duplicate links are ignored so
// reprocessing stays idempotent.
func (r *Repository) CreateSupplierLink(ctx context.Context, tx pgx.Tx, catalogItemID, supplierID uuid.UUID, identifier string) error {
	query := `
		INSERT INTO supplier_links (item_id, supplier_id, identifier)
		VALUES ($1, $2, $3)
		ON CONFLICT (supplier_id, identifier) DO NOTHING
	`
	_, err := tx.Exec(ctx, query, catalogItemID, supplierID, identifier)
	return err
}

// AddLog appends a processing-log entry via the given executor (pool or
// transaction).
func (r *Repository) AddLog(ctx context.Context, ex executor, invoiceID uuid.UUID, action, message string) error {
	query := `INSERT INTO invoice_processing_log (invoice_id, action, message) VALUES ($1, $2, $3)`
	_, err := ex.Exec(ctx, query, invoiceID, action, message)
	return err
}

// Pool exposes the underlying DB for log writes outside a transaction.
func (r *Repository) Pool() executor { return r.db }
