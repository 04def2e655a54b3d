package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// ErrUnknownFormat is returned when no registered keyword matches the
// supplier name. Guessing a layout would corrupt every record, so this is
// fatal for the document.
var ErrUnknownFormat = errors.New("unknown supplier format")

// Format identifies one supplier invoice layout.
type Format int

const (
	// FormatGrid parses renderer table grids with continuation-row merging.
	FormatGrid Format = iota
	// FormatBlock parses single-line product blocks with a fixed regexp.
	FormatBlock
	// FormatBarcode parses 5-line windows led by a product description and
	// followed by an 8-14 digit barcode.
	FormatBarcode
	// FormatMarker parses marker-led records ("SKU:" lines) with orphan
	// identifier recovery across page breaks.
	FormatMarker
	// FormatPack parses 2-line descriptions carrying a pack multiplier
	// suffix ("X 6") and normalizes quantity and unit price to per-unit.
	FormatPack
	// FormatSKU parses 5-line windows where the description is followed by
	// a 4-6 digit SKU.
	FormatSKU
)

// Registration binds a supplier keyword to a format. Keywords are matched
// case-insensitively as substrings of the supplier name; registration order
// decides ties (first wins).
type Registration struct {
	Keyword string
	Format  Format
}

// DefaultRegistrations is the production keyword table.
func DefaultRegistrations() []Registration {
	return []Registration{
		{Keyword: "shure", Format: FormatGrid},
		{Keyword: "wholesale trading", Format: FormatBlock},
		{Keyword: "wts", Format: FormatBlock},
		{Keyword: "very", Format: FormatBarcode},
		{Keyword: "connect", Format: FormatMarker},
		{Keyword: "cb", Format: FormatMarker},
		{Keyword: "cherry", Format: FormatPack},
		{Keyword: "apollo", Format: FormatSKU},
	}
}

// Classifier selects an extractor for a supplier name. The registration
// table is fixed at construction so tests can inject their own fixtures.
type Classifier struct {
	matcher    *ahocorasick.Matcher
	regs       []Registration
	extractors map[Format]Extractor
}

// NewClassifier builds a classifier over the given registration table.
func NewClassifier(regs []Registration) *Classifier {
	patterns := make([][]byte, len(regs))
	for i, reg := range regs {
		patterns[i] = []byte(strings.ToLower(reg.Keyword))
	}

	return &Classifier{
		matcher: ahocorasick.NewMatcher(patterns),
		regs:    regs,
		extractors: map[Format]Extractor{
			FormatGrid:    GridExtractor{},
			FormatBlock:   BlockExtractor{},
			FormatBarcode: BarcodeExtractor{},
			FormatMarker:  MarkerExtractor{},
			FormatPack:    PackExtractor{},
			FormatSKU:     SKUExtractor{},
		},
	}
}

// Select returns the extractor for the first registered keyword contained in
// the supplier name, or ErrUnknownFormat when nothing matches.
func (c *Classifier) Select(supplierName string) (Extractor, error) {
	hits := c.matcher.Match([]byte(strings.ToLower(supplierName)))
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, supplierName)
	}

	// The matcher reports every keyword present; registration order decides.
	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return c.extractors[c.regs[best].Format], nil
}
