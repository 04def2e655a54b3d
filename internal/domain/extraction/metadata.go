package extraction

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-ingest/pkg/money"
)

// MetadataField names the InvoiceMetadata slot a pattern capture fills.
type MetadataField int

const (
	FieldInvoiceNo MetadataField = iota
	FieldOrderNo
	FieldInvoiceDate
	FieldInvoiceTotal
	FieldTotalNetAmount
	FieldTotalVATAmount
)

// MetadataPattern binds a single-group regexp to the field it fills.
type MetadataPattern struct {
	Field   MetadataField
	Pattern *regexp.Regexp
}

// ExtractMetadata applies an ordered pattern table to the document text.
// Every field is independently optional and the first pattern to fill a
// field wins; amount captures that fail to parse are treated as absent.
func ExtractMetadata(fullText string, patterns []MetadataPattern) InvoiceMetadata {
	var md InvoiceMetadata
	for _, p := range patterns {
		switch p.Field {
		case FieldInvoiceNo:
			if md.InvoiceNo == "" {
				md.InvoiceNo = matchString(p.Pattern, fullText)
			}
		case FieldOrderNo:
			if md.OrderNo == "" {
				md.OrderNo = matchString(p.Pattern, fullText)
			}
		case FieldInvoiceDate:
			if md.InvoiceDate == "" {
				md.InvoiceDate = matchString(p.Pattern, fullText)
			}
		case FieldInvoiceTotal:
			if md.InvoiceTotal == nil {
				md.InvoiceTotal = matchAmount(p.Pattern, fullText)
			}
		case FieldTotalNetAmount:
			if md.TotalNetAmount == nil {
				md.TotalNetAmount = matchAmount(p.Pattern, fullText)
			}
		case FieldTotalVATAmount:
			if md.TotalVATAmount == nil {
				md.TotalVATAmount = matchAmount(p.Pattern, fullText)
			}
		}
	}
	return md
}

// matchString applies an optional single-group pattern against the document
// text, returning "" when it does not match.
func matchString(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// matchAmount applies an optional single-group pattern and normalizes the
// captured value to a decimal. Unparseable captures are treated as absent.
func matchAmount(re *regexp.Regexp, text string) *decimal.Decimal {
	s := matchString(re, text)
	if s == "" {
		return nil
	}
	d, err := money.ParseAmount(s)
	if err != nil {
		return nil
	}
	return &d
}

// computeTotals derives invoice totals from the accepted records, for
// layouts with no printed subtotal: net is the sum of line totals, VAT the
// sum of line total times tax rate, and the combined invoice total is
// rounded half-up to 2 decimal places.
func computeTotals(products []ProductRecord) (net, vat, total decimal.Decimal) {
	for _, p := range products {
		net = net.Add(p.TotalPrice)
		vat = vat.Add(money.VAT(p.TotalPrice, p.TaxRate))
	}
	total = money.RoundHalfUp(net.Add(vat), 2)
	return net, vat, total
}

// lineAt returns the trimmed line at index i, or "" past either end.
// The extractors lean on this for their lookahead windows.
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	return digitsOnly.MatchString(s)
}
