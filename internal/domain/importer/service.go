package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/matching"
)

// ImportSummary reports what one file import did.
type ImportSummary struct {
	TotalRows    int
	ParsedRows   int
	SkippedRows  int
	ItemsCreated int
	ItemsExisted int
	LinksCreated int
	Errors       []ParseError
}

// Service imports supplier product lists into the catalog.
type Service struct {
	repo   *Repository
	links  matching.LinkWriter
	config ParserConfig
	logger *slog.Logger
}

// NewService wires the catalog importer.
func NewService(repo *Repository, links matching.LinkWriter, config ParserConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		links:  links,
		config: config,
		logger: logger.With("component", "importer"),
	}
}

// ImportFile parses a CSV or XLSX product list and upserts its items,
// recording supplier links for rows that carry an identifier. The file
// format is chosen by extension.
func (s *Service) ImportFile(ctx context.Context, path string, supplierID uuid.UUID) (*ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	var result *ParseResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result, err = NewExcelParser(s.config).ParseExcel(f)
	case ".csv", ".txt":
		result, err = NewParser(s.config).Parse(f)
	default:
		return nil, fmt.Errorf("unsupported import format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	items := Dedupe(result.Items)

	summary := &ImportSummary{
		TotalRows:   result.TotalRows,
		ParsedRows:  result.ParsedRows,
		SkippedRows: result.SkippedRows,
		Errors:      result.Errors,
	}

	for _, item := range items {
		id, created, err := s.repo.UpsertItem(ctx, item.Name)
		if err != nil {
			return summary, fmt.Errorf("upsert %q: %w", item.Name, err)
		}
		if created {
			summary.ItemsCreated++
		} else {
			summary.ItemsExisted++
		}

		if item.Identifier == "" {
			continue
		}
		if err := s.links.CreateLink(ctx, id, supplierID, item.Identifier); err != nil {
			return summary, fmt.Errorf("link %q: %w", item.Identifier, err)
		}
		summary.LinksCreated++
	}

	s.logger.Info("catalog import finished",
		"file", filepath.Base(path),
		"created", summary.ItemsCreated,
		"existing", summary.ItemsExisted,
		"links", summary.LinksCreated,
		"errors", len(summary.Errors))
	return summary, nil
}
