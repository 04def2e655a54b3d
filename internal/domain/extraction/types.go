// Package extraction reconstructs logical product records from rendered
// supplier invoices. Each supplier layout has its own extractor; all of them
// share the same best-effort contract: malformed candidate records are
// skipped, never fatal, and an empty result is valid output.
package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TableGrid is one rectangular table extracted from a page, as rows of cell
// strings.
type TableGrid [][]string

// RawPage is the renderer output for a single page: the flat ordered text
// lines plus zero or more independently extracted table grids.
type RawPage struct {
	Lines  []string
	Tables []TableGrid
}

// Document is the full rendered content of one invoice, in page order.
// It is produced once by a ContentProvider and never mutated.
type Document struct {
	Pages []RawPage
}

// AllLines returns every text line of the document in reading order,
// trimmed of surrounding whitespace.
func (d Document) AllLines() []string {
	var lines []string
	for _, p := range d.Pages {
		for _, ln := range p.Lines {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	return lines
}

// FullText returns the concatenated document text, used for the pattern
// based metadata extraction.
func (d Document) FullText() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		for _, ln := range p.Lines {
			sb.WriteString(ln)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// AllRows returns every table row of the document in page order. Embedded
// newlines within cells are flattened to spaces, since the renderer wraps
// long cell content.
func (d Document) AllRows() [][]string {
	var rows [][]string
	for _, p := range d.Pages {
		for _, grid := range p.Tables {
			for _, row := range grid {
				clean := make([]string, len(row))
				for i, cell := range row {
					clean[i] = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
				}
				rows = append(rows, clean)
			}
		}
	}
	return rows
}

// InvoiceMetadata holds invoice-level fields extracted from the document
// text. Every field is optional; absence is valid, not an error.
type InvoiceMetadata struct {
	InvoiceNo      string
	OrderNo        string
	InvoiceDate    string
	InvoiceTotal   *decimal.Decimal
	TotalNetAmount *decimal.Decimal
	TotalVATAmount *decimal.Decimal
}

// ProductRecord is one reconstructed invoice line item. Quantity is always
// positive and Description non-empty; extractors discard candidates that
// would violate either.
type ProductRecord struct {
	Description string
	SellerSKU   string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	TaxRate     decimal.Decimal
}

// ExtractionResult is the full output for one document.
type ExtractionResult struct {
	Metadata InvoiceMetadata
	Products []ProductRecord
}

// Extractor reconstructs product records and metadata from a rendered
// document. Implementations are stateless; the same input always yields the
// same output.
type Extractor interface {
	Extract(doc Document) (ExtractionResult, error)
}

// defaultTaxRate is applied when the layout does not print a VAT percentage
// per line.
var defaultTaxRate = decimal.NewFromInt(20)
