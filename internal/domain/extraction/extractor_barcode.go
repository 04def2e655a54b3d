package extraction

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// BarcodeExtractor handles flat-line layouts where each product spans five
// physical lines: description, barcode, quantity, unit price, line total.
// A description has no marker of its own; the boundary predicate is the
// pure-digit barcode on the following line.
type BarcodeExtractor struct{}

var barcodeRe = regexp.MustCompile(`^\d{8,14}$`)

// The bare TOTAL pattern is line-anchored so it cannot capture the
// SUB TOTAL line.
var barcodeMetadata = []MetadataPattern{
	{FieldInvoiceNo, regexp.MustCompile(`ORDER NO\s*#?(\w+)`)},
	{FieldInvoiceDate, regexp.MustCompile(`ORDER DATE\s*([\d-]+)`)},
	{FieldTotalNetAmount, regexp.MustCompile(`SUB TOTAL\s*:\s*£\s*([\d.,]+)`)},
	{FieldTotalVATAmount, regexp.MustCompile(`VAT\s*\([\d%]+\)\s*:\s*£\s*([\d.,]+)`)},
	{FieldInvoiceTotal, regexp.MustCompile(`(?m)^TOTAL\s*:\s*£\s*([\d.,]+)`)},
}

func (BarcodeExtractor) Extract(doc Document) (ExtractionResult, error) {
	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), barcodeMetadata),
	}

	lines := doc.AllLines()

	i := 0
	for i < len(lines)-4 {
		line := lines[i]

		if !isBarcodeBoundary(line, lineAt(lines, i+1)) {
			i++
			continue
		}

		rec, ok := parseBarcodeWindow(lines, i)
		if !ok {
			// The window looked like a record but its fields did not
			// parse; advance one line and keep scanning.
			i++
			continue
		}
		if rec.Quantity > 0 {
			result.Products = append(result.Products, rec)
		}
		i += 5
	}

	return result, nil
}

// isBarcodeBoundary reports whether line starts a new logical record: a
// non-empty description that is neither a price line nor a table header,
// followed by a pure-digit barcode of 8-14 characters.
func isBarcodeBoundary(line, next string) bool {
	return line != "" &&
		!strings.HasPrefix(line, "£") &&
		!strings.HasPrefix(line, "ITEM") &&
		barcodeRe.MatchString(next)
}

func parseBarcodeWindow(lines []string, i int) (ProductRecord, bool) {
	qtyLine := lineAt(lines, i+2)
	if !isDigits(qtyLine) {
		return ProductRecord{}, false
	}

	quantity, err := money.ParseQuantity(qtyLine)
	if err != nil {
		return ProductRecord{}, false
	}
	unitPrice, err := money.ParseAmount(lineAt(lines, i+3))
	if err != nil {
		return ProductRecord{}, false
	}
	totalPrice, err := money.ParseAmount(lineAt(lines, i+4))
	if err != nil {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Description: lines[i],
		SellerSKU:   lineAt(lines, i+1),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		TaxRate:     defaultTaxRate,
	}, true
}
