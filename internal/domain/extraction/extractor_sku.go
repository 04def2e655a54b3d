package extraction

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// SKUExtractor handles flat-line layouts where a product spans five lines:
// description, a 4-6 digit SKU, "Excl. VAT: £price", quantity and
// "Excl. VAT: £total". The boundary predicate is the short numeric SKU on
// the following line, guarded by an exclusion list so header, footer and
// total lines never start a record.
type SKUExtractor struct{}

var (
	shortSKURe  = regexp.MustCompile(`^\d{4,6}$`)
	skuAmountRe = regexp.MustCompile(`£([\d.,]+)`)

	skuOrderRe = regexp.MustCompile(`Order\s*#\s*(\d+)`)
)

// The order number doubles as the invoice number on this layout.
var skuMetadata = []MetadataPattern{
	{FieldInvoiceNo, skuOrderRe},
	{FieldOrderNo, skuOrderRe},
	{FieldInvoiceDate, regexp.MustCompile(`(?i)Complete Order Date:\s*(\d+\s+\w+\s+\d{4})`)},
	{FieldInvoiceTotal, regexp.MustCompile(`Grand Total \(Incl\.Tax\)\s*£([\d.,]+)`)},
	{FieldTotalVATAmount, regexp.MustCompile(`(?m)^Tax\s*£([\d.,]+)`)},
	{FieldTotalNetAmount, regexp.MustCompile(`Grand Total \(Excl\.Tax\)\s*£([\d.,]+)`)},
}

// skuExcludedPrefixes are lines that look like descriptions but belong to
// page furniture or the totals section.
var skuExcludedPrefixes = []string{
	"Excl.", "£", "Chat", "Shipping", "Grand", "Subtotal", "Product Name",
}

func (SKUExtractor) Extract(doc Document) (ExtractionResult, error) {
	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), skuMetadata),
	}

	lines := doc.AllLines()

	i := 0
	for i < len(lines)-4 {
		if !isSKUBoundary(lines[i], lineAt(lines, i+1)) {
			i++
			continue
		}

		rec, ok := parseSKUWindow(lines, i)
		if !ok {
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

func isSKUBoundary(line, next string) bool {
	if line == "" || !shortSKURe.MatchString(next) {
		return false
	}
	for _, prefix := range skuExcludedPrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

func parseSKUWindow(lines []string, i int) (ProductRecord, bool) {
	priceMatch := skuAmountRe.FindStringSubmatch(lineAt(lines, i+2))
	qtyLine := lineAt(lines, i+3)
	totalMatch := skuAmountRe.FindStringSubmatch(lineAt(lines, i+4))

	if priceMatch == nil || totalMatch == nil || !isDigits(qtyLine) {
		return ProductRecord{}, false
	}

	unitPrice, err := money.ParseAmount(priceMatch[1])
	if err != nil {
		return ProductRecord{}, false
	}
	quantity, err := money.ParseQuantity(qtyLine)
	if err != nil {
		return ProductRecord{}, false
	}
	totalPrice, err := money.ParseAmount(totalMatch[1])
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
