// Package importer seeds the catalog from supplier product lists. It parses
// CSV and Excel files into catalog rows, deduplicates them by normalized
// name, and upserts items and supplier links.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// CatalogRow is a raw file row. The tags cover the common column names seen
// in supplier exports (gocsv matches by header name).
type CatalogRow struct {
	// Name columns
	Name        string `csv:"name"`
	ProductName string `csv:"product name"`
	Product     string `csv:"product"`
	Description string `csv:"description"`

	// Identifier columns
	SKU         string `csv:"sku"`
	SupplierSKU string `csv:"supplier sku"`
	Code        string `csv:"code"`
	Barcode     string `csv:"barcode"`
	EAN         string `csv:"ean"`
}

// ParsedItem is the normalized output after parsing a row.
type ParsedItem struct {
	Name       string
	Identifier string // supplier-scoped identifier, may be empty
	RawRow     int    // original row number for error reporting
}

// ParseError records a row the parser could not use.
type ParseError struct {
	Row     int
	Message string
	RawData string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ParseResult aggregates the outcome of parsing one file.
type ParseResult struct {
	Items       []ParsedItem
	Errors      []ParseError
	TotalRows   int
	ParsedRows  int
	SkippedRows int
}

// ParserConfig configures the file parsers.
type ParserConfig struct {
	Delimiter rune // CSV delimiter (0 = default comma)
	SkipLines int  // lines to skip before the header row
}

// Parser reads catalog rows from CSV files.
type Parser struct {
	config ParserConfig
}

// NewParser creates a CSV parser with the given configuration.
func NewParser(config ParserConfig) *Parser {
	return &Parser{config: config}
}

// Parse reads all catalog rows from a CSV reader.
func (p *Parser) Parse(reader io.Reader) (*ParseResult, error) {
	result := &ParseResult{
		Items:  make([]ParsedItem, 0, 256),
		Errors: make([]ParseError, 0),
	}

	if p.config.SkipLines > 0 {
		reader = skipLines(reader, p.config.SkipLines)
	}

	if p.config.Delimiter != 0 {
		gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			r := csv.NewReader(in)
			r.Comma = p.config.Delimiter
			r.LazyQuotes = true
			r.TrimLeadingSpace = true
			return r
		})
	}

	var rows []CatalogRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	result.TotalRows = len(rows)

	for i, row := range rows {
		rowNum := i + p.config.SkipLines + 2 // 1-indexed plus header

		item := p.processRow(row, rowNum)
		if item == nil {
			result.SkippedRows++
			continue
		}

		result.Items = append(result.Items, *item)
		result.ParsedRows++
	}

	return result, nil
}

// processRow converts a CatalogRow to a ParsedItem. Rows without a name are
// skipped, not errors: supplier exports routinely carry blank filler rows.
func (p *Parser) processRow(row CatalogRow, rowNum int) *ParsedItem {
	name := coalesce(row.Name, row.ProductName, row.Product, row.Description)
	if name == "" {
		return nil
	}

	identifier := coalesce(row.SKU, row.SupplierSKU, row.Code, row.Barcode, row.EAN)

	return &ParsedItem{
		Name:       cleanName(name),
		Identifier: identifier,
		RawRow:     rowNum,
	}
}

// Dedupe collapses items sharing a normalized name into one, keeping the
// first occurrence's spelling and the first non-empty identifier.
func Dedupe(items []ParsedItem) []ParsedItem {
	seen := make(map[string]int, len(items))
	out := make([]ParsedItem, 0, len(items))

	for _, item := range items {
		key := strings.ToLower(item.Name)
		if idx, ok := seen[key]; ok {
			if out[idx].Identifier == "" {
				out[idx].Identifier = item.Identifier
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, item)
	}
	return out
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// cleanName normalizes a product name.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// skipLines returns a reader that discards the first n lines.
func skipLines(r io.Reader, n int) io.Reader {
	return &lineSkipper{reader: r, skip: n}
}

type lineSkipper struct {
	reader  io.Reader
	skip    int
	skipped bool
}

func (ls *lineSkipper) Read(p []byte) (int, error) {
	if !ls.skipped {
		buf := make([]byte, 1)
		lines := 0
		for lines < ls.skip {
			n, err := ls.reader.Read(buf)
			if err != nil {
				return 0, err
			}
			if n > 0 && buf[0] == '\n' {
				lines++
			}
		}
		ls.skipped = true
	}
	return ls.reader.Read(p)
}
