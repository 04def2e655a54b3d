package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// PackExtractor handles layouts where the description spans two lines, the
// second ending in a pack multiplier suffix like "X 6". Printed prices are
// per-pack; the emitted record is normalized to per-unit, so quantity is
// multiplied by the pack size and the unit price divided by it.
type PackExtractor struct{}

var packSuffixRe = regexp.MustCompile(`X\s*(\d+)$`)

var packMetadata = []MetadataPattern{
	{FieldInvoiceNo, regexp.MustCompile(`Invoice No\.\s*([\d-]+)`)},
	{FieldOrderNo, regexp.MustCompile(`Order No\.\s*(\d+)`)},
	{FieldInvoiceDate, regexp.MustCompile(`Date:\s*([\d/]+)`)},
	{FieldInvoiceTotal, regexp.MustCompile(`Amount:\s*£([\d.,]+)`)},
}

func (PackExtractor) Extract(doc Document) (ExtractionResult, error) {
	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), packMetadata),
	}

	lines := doc.AllLines()

	i := 0
	for i < len(lines)-5 {
		next := lineAt(lines, i+1)
		if !packSuffixRe.MatchString(next) {
			i++
			continue
		}

		rec, ok := parsePackWindow(lines, i)
		if !ok {
			i++
			continue
		}
		if rec.Quantity > 0 {
			result.Products = append(result.Products, rec)
		}
		// The window ends with a total-inc-tax line the record does not use.
		i += 6
	}

	return result, nil
}

func parsePackWindow(lines []string, i int) (ProductRecord, bool) {
	description := strings.TrimSpace(lines[i] + " " + lineAt(lines, i+1))

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

	packSize := 1
	if m := packSuffixRe.FindStringSubmatch(description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			packSize = n
		}
	}

	cleanDesc := strings.TrimSpace(packSuffixRe.ReplaceAllString(description, ""))
	if cleanDesc == "" {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Description: cleanDesc,
		Quantity:    quantity * packSize,
		UnitPrice:   unitPrice.Div(decimal.NewFromInt(int64(packSize))),
		TotalPrice:  totalPrice,
		TaxRate:     defaultTaxRate,
	}, true
}
