// Package invoices owns invoice persistence and the processing pipeline:
// classify the supplier format, extract records, persist line items and, on
// request, resolve them against the catalog. All writes for one document
// happen inside a single transaction so a partially matched document never
// leaves the store inconsistent.
package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice processing statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

// Processing log actions.
const (
	ActionUpload      = "UPLOAD"
	ActionExtract     = "EXTRACT"
	ActionMatch       = "MATCH"
	ActionStockCreate = "STOCK_CREATE"
	ActionError       = "ERROR"
)

// Invoice is one supplier invoice awaiting or finished processing.
type Invoice struct {
	ID             uuid.UUID
	InvoiceNumber  string
	SupplierID     uuid.UUID
	SupplierName   string
	DocumentPath   string
	Status         string
	TotalNetAmount decimal.Decimal
	TotalVATAmount decimal.Decimal
	InvoiceTotal   decimal.Decimal
	ErrorMessage   string
	CreatedAt      time.Time
	ProcessedAt    *time.Time
}

// InvoiceItem is one persisted product record, optionally resolved to a
// catalog item.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ItemID      *uuid.UUID
	Description string
	SellerSKU   string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	TaxRate     decimal.Decimal
	Matched     bool
}
