package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelParser reads catalog rows from XLSX files.
type ExcelParser struct {
	config ParserConfig
}

// NewExcelParser creates an Excel parser.
func NewExcelParser(config ParserConfig) *ExcelParser {
	return &ExcelParser{config: config}
}

// ParseExcel reads all catalog rows from an Excel file.
func (p *ExcelParser) ParseExcel(reader io.Reader) (*ParseResult, error) {
	result := &ParseResult{
		Items:  make([]ParsedItem, 0, 256),
		Errors: make([]ParseError, 0),
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := p.findCatalogSheet(f)
	if sheetName == "" {
		return nil, fmt.Errorf("no suitable sheet found")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return result, nil
	}

	startRow := p.config.SkipLines
	if startRow >= len(rows) {
		return result, nil
	}

	colMap := p.mapColumns(rows[startRow])

	for i := startRow + 1; i < len(rows); i++ {
		rowNum := i + 1 // 1-indexed
		result.TotalRows++

		item := p.processExcelRow(rows[i], rowNum, colMap)
		if item == nil {
			result.SkippedRows++
			continue
		}

		result.Items = append(result.Items, *item)
		result.ParsedRows++
	}

	return result, nil
}

type columnMap struct {
	nameCol       int
	identifierCol int
}

// findCatalogSheet picks the sheet most likely to hold product data.
func (p *ExcelParser) findCatalogSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}

	preferredNames := []string{"products", "catalog", "catalogue", "items", "stock", "sheet1"}
	for _, preferred := range preferredNames {
		for _, sheet := range sheets {
			if strings.EqualFold(sheet, preferred) {
				return sheet
			}
		}
	}

	return sheets[0]
}

// mapColumns resolves column indices from the header row.
func (p *ExcelParser) mapColumns(headers []string) columnMap {
	cm := columnMap{nameCol: -1, identifierCol: -1}

	nameKeywords := []string{"name", "product", "description"}
	identifierKeywords := []string{"sku", "code", "barcode", "ean"}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))

		if cm.nameCol < 0 && containsAny(h, nameKeywords) {
			cm.nameCol = i
		}
		if cm.identifierCol < 0 && containsAny(h, identifierKeywords) {
			cm.identifierCol = i
		}
	}

	return cm
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func (p *ExcelParser) processExcelRow(row []string, rowNum int, cm columnMap) *ParsedItem {
	getValue := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := getValue(cm.nameCol)
	if name == "" {
		return nil
	}

	return &ParsedItem{
		Name:       cleanName(name),
		Identifier: getValue(cm.identifierCol),
		RawRow:     rowNum,
	}
}
