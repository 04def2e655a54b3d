// Package matching resolves reconstructed product records against the
// inventory catalog using a cascade of strategies, from exact identifier
// lookup down to keyword conjunction. Matching never mutates the catalog;
// link creation is left to the surrounding orchestration.
package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
)

// CatalogItem is one known inventory item.
type CatalogItem struct {
	ID   uuid.UUID
	Name string
}

// SupplierLink ties a catalog item to the identifier a supplier uses for it.
type SupplierLink struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	SupplierID uuid.UUID
	Identifier string
}

// Strategy identifies which cascade step produced a match.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyIdentifier
	StrategyExactName
	StrategySubstring
	StrategyKeywords
)

func (s Strategy) String() string {
	switch s {
	case StrategyIdentifier:
		return "identifier"
	case StrategyExactName:
		return "exact_name"
	case StrategySubstring:
		return "substring"
	case StrategyKeywords:
		return "keywords"
	default:
		return "none"
	}
}

// MatchOutcome is the matcher's verdict for one record. A nil Item with
// StrategyNone is the valid "unmatched" terminal state, not an error.
type MatchOutcome struct {
	Record    extraction.ProductRecord
	Item      *CatalogItem
	Strategy  Strategy
	Ambiguous bool
}

// Catalog is the read-only query surface the matcher depends on. Result
// slices come back in the catalog's default ordering (name, then id), which
// makes the first-candidate tie-break deterministic.
type Catalog interface {
	FindByIdentifier(ctx context.Context, supplierID uuid.UUID, identifier string) (*CatalogItem, error)
	FindByNameExact(ctx context.Context, name string) ([]CatalogItem, error)
	FindByNameContains(ctx context.Context, fragment string) ([]CatalogItem, error)
	FindByAllKeywords(ctx context.Context, keywords []string) ([]CatalogItem, error)
	FindSupplierLink(ctx context.Context, itemID, supplierID uuid.UUID) (*SupplierLink, error)
	ListItems(ctx context.Context) ([]CatalogItem, error)
}

// LinkWriter persists supplier links. Consumed by orchestration after a
// match, never by the matcher itself.
type LinkWriter interface {
	CreateLink(ctx context.Context, itemID, supplierID uuid.UUID, identifier string) error
}
