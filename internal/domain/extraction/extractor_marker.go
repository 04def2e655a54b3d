package extraction

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// MarkerExtractor handles layouts where a product is announced by a "SKU:"
// marker line: description lines, the marker, the SKU value, then quantity,
// unit price, VAT percentage and line total. Page breaks can strand a SKU
// value on the page after its marker, so a first pass collects those orphan
// identifiers together with the description fragment preceding them, and the
// forward scan reattaches them when it hits a marker whose value is missing.
type MarkerExtractor struct{}

const (
	markerLine       = "SKU:"
	markerPrefixLine = "SKU: O-"
)

// orphanSKURe matches stranded identifier values: a run of uppercase
// letters then alphanumerics ending in at least two digits.
var orphanSKURe = regexp.MustCompile(`^[A-Z]{3,}[A-Z0-9]*\d{2,}$`)

// sectionHeadings terminate the backward description scan.
var sectionHeadings = map[string]bool{
	"Total":       true,
	"VAT":         true,
	"Unit Price":  true,
	"Quantity":    true,
	"Description": true,
	"Item":        true,
}

var markerMetadata = []MetadataPattern{
	{FieldInvoiceNo, regexp.MustCompile(`Invoice\s+([A-Z]{2}\d+)`)},
	{FieldOrderNo, regexp.MustCompile(`Order Number:\s*([A-Z]{2}\d+)`)},
	{FieldInvoiceDate, regexp.MustCompile(`(?i)Issue Date:\s*(\w+\s+\d+,?\s*\d{4})`)},
	{FieldInvoiceTotal, regexp.MustCompile(`Total incl\. VAT\s*£([\d.,]+)`)},
	{FieldTotalVATAmount, regexp.MustCompile(`VAT\s*\([^)]+\)\s*\d+%\s*£([\d.,]+)`)},
	{FieldTotalNetAmount, regexp.MustCompile(`Total excl\. VAT\s*£([\d.,]+)`)},
}

type orphanSKU struct {
	value       string
	description string
}

func (MarkerExtractor) Extract(doc Document) (ExtractionResult, error) {
	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), markerMetadata),
	}

	lines := doc.AllLines()
	orphans := collectOrphanSKUs(lines)

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch {
		case line == markerLine:
			if isDigits(lineAt(lines, i+1)) {
				// The SKU value fell onto the next page; what follows the
				// marker directly is the quantity.
				if rec, ok := reattachOrphan(lines, i, orphans); ok {
					result.Products = append(result.Products, rec)
				}
				i += 5
			} else {
				if rec, ok := parseMarkerRecord(lines, i, false); ok {
					result.Products = append(result.Products, rec)
				}
				i += 6
			}
		case line == markerPrefixLine:
			if rec, ok := parseMarkerRecord(lines, i, true); ok {
				result.Products = append(result.Products, rec)
			}
			i += 6
		default:
			i++
		}
	}

	return result, nil
}

// collectOrphanSKUs scans the whole document for identifier values that
// appear without a preceding marker, pairing each with the description text
// directly above it. Order of appearance is preserved so reattachment is
// deterministic.
func collectOrphanSKUs(lines []string) []orphanSKU {
	var orphans []orphanSKU
	for i, line := range lines {
		if len(line) < 6 || !orphanSKURe.MatchString(line) {
			continue
		}
		prev := lineAt(lines, i-1)
		if prev == markerLine || strings.HasPrefix(prev, markerLine) {
			continue
		}
		orphans = append(orphans, orphanSKU{
			value:       line,
			description: descriptionBefore(lines, i),
		})
	}
	return orphans
}

// descriptionBefore walks backward from idx collecting description lines
// until a section heading, amount line or footer boundary.
func descriptionBefore(lines []string, idx int) string {
	var desc []string
	for j := idx - 1; j >= 0; j-- {
		line := lines[j]
		if sectionHeadings[line] {
			break
		}
		if strings.HasPrefix(line, "£") || strings.HasSuffix(line, "%") {
			break
		}
		if isFooterLine(line) {
			break
		}
		if line != "" {
			desc = append([]string{line}, desc...)
		}
	}
	return strings.Join(desc, " ")
}

// isFooterLine detects page footer/header furniture that must never leak
// into a description.
func isFooterLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "connectbeauty") ||
		strings.Contains(line, "Connect Beauty") ||
		strings.Contains(lower, "amount paid")
}

// reattachOrphan handles the marker-without-value case: the description half
// before the marker is joined with the first collected orphan that carries a
// continuation fragment. With no matching orphan the candidate is dropped,
// never fabricated.
func reattachOrphan(lines []string, markerIdx int, orphans []orphanSKU) (ProductRecord, bool) {
	head := descriptionBefore(lines, markerIdx)

	for _, o := range orphans {
		if o.description == "" {
			continue
		}
		return buildMarkerRecord(
			head+" "+o.description,
			o.value,
			lineAt(lines, markerIdx+1),
			lineAt(lines, markerIdx+2),
			lineAt(lines, markerIdx+3),
			lineAt(lines, markerIdx+4),
		)
	}
	return ProductRecord{}, false
}

func parseMarkerRecord(lines []string, markerIdx int, stripPrefix bool) (ProductRecord, bool) {
	if markerIdx+5 >= len(lines) {
		return ProductRecord{}, false
	}

	sku := lineAt(lines, markerIdx+1)
	if stripPrefix {
		sku = strings.TrimPrefix(sku, "O-")
	}

	return buildMarkerRecord(
		descriptionBefore(lines, markerIdx),
		sku,
		lineAt(lines, markerIdx+2),
		lineAt(lines, markerIdx+3),
		lineAt(lines, markerIdx+4),
		lineAt(lines, markerIdx+5),
	)
}

func buildMarkerRecord(description, sku, qtyLine, priceLine, vatLine, totalLine string) (ProductRecord, bool) {
	if !isDigits(qtyLine) || !strings.HasSuffix(vatLine, "%") {
		return ProductRecord{}, false
	}

	quantity, err := money.ParseQuantity(qtyLine)
	if err != nil {
		return ProductRecord{}, false
	}
	unitPrice, err := money.ParseAmount(priceLine)
	if err != nil {
		return ProductRecord{}, false
	}
	taxRate, err := money.ParseAmount(strings.TrimSuffix(vatLine, "%"))
	if err != nil {
		return ProductRecord{}, false
	}
	totalPrice, err := money.ParseAmount(totalLine)
	if err != nil {
		return ProductRecord{}, false
	}

	description = strings.TrimSpace(description)
	if quantity <= 0 || description == "" {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Description: description,
		SellerSKU:   sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		TaxRate:     taxRate,
	}, true
}
