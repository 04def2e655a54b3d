package extraction

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// GridExtractor handles layouts where the renderer already segments product
// rows into table grids: [SKU, Description, Unit Price, Qty, Total]. Rows
// with fewer than two non-empty cells are wrap artifacts and are merged into
// the previous logical row.
type GridExtractor struct{}

var gridMetadata = []MetadataPattern{
	{FieldInvoiceDate, regexp.MustCompile(`Date:\s*(\d{1,2}/\d{1,2}/\d{4})`)},
	{FieldInvoiceNo, regexp.MustCompile(`Order id:\s*#(\w+)`)},
}

func (GridExtractor) Extract(doc Document) (ExtractionResult, error) {
	rows := mergeContinuationRows(doc.AllRows())

	result := ExtractionResult{
		Metadata: ExtractMetadata(doc.FullText(), gridMetadata),
	}

	for _, row := range rows {
		if isGridHeaderRow(row) || isGridTotalRow(row) {
			if isGridTotalRow(row) && result.Metadata.InvoiceTotal == nil && len(row) >= 2 {
				if d, err := money.ParseAmount(row[1]); err == nil {
					result.Metadata.InvoiceTotal = &d
				}
			}
			continue
		}
		// Option/sub rows surface with an empty leading cell.
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if rec, ok := parseGridRow(row); ok {
			result.Products = append(result.Products, rec)
		}
	}

	return result, nil
}

// mergeContinuationRows appends the cells of under-filled rows to the
// preceding logical row, undoing renderer line wraps within a cell.
func mergeContinuationRows(rows [][]string) [][]string {
	var logical [][]string
	for _, row := range rows {
		if countNonEmpty(row) < 2 && len(logical) > 0 {
			last := len(logical) - 1
			logical[last] = append(logical[last], row...)
			continue
		}
		logical = append(logical, row)
	}
	return logical
}

func countNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if cell != "" {
			n++
		}
	}
	return n
}

func isGridHeaderRow(row []string) bool {
	return len(row) >= 5 && row[0] == "SKU" && row[1] == "Product"
}

func isGridTotalRow(row []string) bool {
	return len(row) >= 2 && strings.HasPrefix(row[0], "Total")
}

func parseGridRow(row []string) (ProductRecord, bool) {
	if len(row) < 5 {
		return ProductRecord{}, false
	}

	sku := row[0]
	description := row[1]

	// Price/qty data sits somewhere after the first two columns; the
	// renderer pads merged cells with empties.
	var cols []string
	for _, cell := range row[2:] {
		if cell != "" {
			cols = append(cols, cell)
		}
	}
	if len(cols) < 3 {
		return ProductRecord{}, false
	}

	unitPrice, err := money.ParseAmount(cols[0])
	if err != nil {
		return ProductRecord{}, false
	}
	quantity, err := money.ParseQuantity(cols[1])
	if err != nil {
		return ProductRecord{}, false
	}
	totalPrice, err := money.ParseAmount(cols[2])
	if err != nil {
		return ProductRecord{}, false
	}

	if quantity <= 0 || description == "" {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Description: description,
		SellerSKU:   sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		TaxRate:     defaultTaxRate,
	}, true
}
