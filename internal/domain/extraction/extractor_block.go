package extraction

import (
	"regexp"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// BlockExtractor handles layouts where each product is a single rendered
// line: case count, description, unit price, net total, VAT percentage and
// quantity, with comma-decimal numbers. The invoice prints no subtotal, so
// totals are derived from the accepted records.
type BlockExtractor struct{}

var blockProductRe = regexp.MustCompile(`(\d+)\s+(.+?)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s*$`)

var blockMetadata = []MetadataPattern{
	{FieldInvoiceNo, regexp.MustCompile(`(?i)Invoice\s*No\.?:?\s*(\d+)`)},
	{FieldInvoiceDate, regexp.MustCompile(`(?i)Invoice\s*Date\.?:?\s*([\d./-]+)`)},
	{FieldOrderNo, regexp.MustCompile(`(?i)Order\s*No\.?:?\s*(\d+)`)},
}

func (BlockExtractor) Extract(doc Document) (ExtractionResult, error) {
	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), blockMetadata),
	}

	for _, line := range doc.AllLines() {
		m := blockProductRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rec, ok := parseBlockMatch(m); ok {
			result.Products = append(result.Products, rec)
		}
	}

	net, vat, total := computeTotals(result.Products)
	result.Metadata.TotalNetAmount = &net
	result.Metadata.TotalVATAmount = &vat
	result.Metadata.InvoiceTotal = &total

	return result, nil
}

func parseBlockMatch(m []string) (ProductRecord, bool) {
	// m: [full, case, description, unit, net, vat, qty]
	description := m[2]

	unitPrice, err := money.ParseAmount(m[3])
	if err != nil {
		return ProductRecord{}, false
	}
	totalPrice, err := money.ParseAmount(m[4])
	if err != nil {
		return ProductRecord{}, false
	}
	taxRate, err := money.ParseAmount(m[5])
	if err != nil {
		return ProductRecord{}, false
	}
	quantity, err := money.ParseQuantity(m[6])
	if err != nil {
		return ProductRecord{}, false
	}

	if quantity <= 0 || description == "" {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		TaxRate:     taxRate,
	}, true
}
