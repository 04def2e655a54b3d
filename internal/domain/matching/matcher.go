package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
)

// Matcher resolves product records against the catalog. It holds no state
// between calls; the catalog is the only shared resource and is read-only.
type Matcher struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewMatcher creates a matcher over the given catalog.
func NewMatcher(catalog Catalog, logger *slog.Logger) *Matcher {
	return &Matcher{
		catalog: catalog,
		logger:  logger.With("component", "matcher"),
	}
}

// Match tries each strategy in fixed priority order and stops at the first
// that yields at least one candidate. An empty candidate set from every
// strategy produces the unmatched outcome, which is valid and requires
// operator intervention rather than signalling an error.
func (m *Matcher) Match(ctx context.Context, record extraction.ProductRecord, supplierID uuid.UUID) (MatchOutcome, error) {
	outcome := MatchOutcome{Record: record, Strategy: StrategyNone}

	// 1. Exact identifier against the supplier-scoped link table.
	if record.SellerSKU != "" {
		item, err := m.catalog.FindByIdentifier(ctx, supplierID, record.SellerSKU)
		if err != nil {
			return outcome, fmt.Errorf("identifier lookup: %w", err)
		}
		if item != nil {
			outcome.Item = item
			outcome.Strategy = StrategyIdentifier
			return outcome, nil
		}
	}

	// 2. Case-insensitive exact name.
	items, err := m.catalog.FindByNameExact(ctx, record.Description)
	if err != nil {
		return outcome, fmt.Errorf("exact name lookup: %w", err)
	}
	if len(items) > 0 {
		return m.resolve(ctx, outcome, items, StrategyExactName, supplierID)
	}

	// 3. Catalog name contains the full description.
	items, err = m.catalog.FindByNameContains(ctx, record.Description)
	if err != nil {
		return outcome, fmt.Errorf("substring lookup: %w", err)
	}
	if len(items) > 0 {
		return m.resolve(ctx, outcome, items, StrategySubstring, supplierID)
	}

	// 4. All selected keywords as substrings of the item name.
	keywords := selectKeywords(record.Description)
	if len(keywords) == 0 {
		return outcome, nil
	}
	items, err = m.catalog.FindByAllKeywords(ctx, keywords)
	if err != nil {
		return outcome, fmt.Errorf("keyword lookup: %w", err)
	}
	if len(items) > 0 {
		return m.resolve(ctx, outcome, items, StrategyKeywords, supplierID)
	}

	return outcome, nil
}

// resolve applies the tie-break to a non-empty candidate set: prefer a
// candidate already linked to this supplier, else the first in catalog
// default order.
func (m *Matcher) resolve(ctx context.Context, outcome MatchOutcome, items []CatalogItem, strategy Strategy, supplierID uuid.UUID) (MatchOutcome, error) {
	outcome.Strategy = strategy

	if len(items) == 1 {
		outcome.Item = &items[0]
		return outcome, nil
	}

	outcome.Ambiguous = true
	m.logger.Debug("ambiguous match",
		"strategy", strategy.String(),
		"description", outcome.Record.Description,
		"candidates", len(items))

	for i := range items {
		link, err := m.catalog.FindSupplierLink(ctx, items[i].ID, supplierID)
		if err != nil {
			return outcome, fmt.Errorf("supplier link lookup: %w", err)
		}
		if link != nil {
			outcome.Item = &items[i]
			return outcome, nil
		}
	}

	outcome.Item = &items[0]
	return outcome, nil
}
