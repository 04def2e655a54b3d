package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository is the PostgreSQL-backed catalog. All query methods are
// read-only; CreateLink is the single mutation and is called by
// orchestration, inside the per-document transaction, never by the matcher.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a catalog repository over the pool.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindByIdentifier resolves a supplier-scoped identifier through the link
// table. Returns nil when no link exists.
func (r *CatalogRepository) FindByIdentifier(ctx context.Context, supplierID uuid.UUID, identifier string) (*CatalogItem, error) {
	query := `
		SELECT ci.id, ci.name
		FROM supplier_links sl
		JOIN catalog_items ci ON ci.id = sl.item_id
		WHERE sl.supplier_id = $1 AND sl.identifier = $2
		LIMIT 1
	`

	var item CatalogItem
	err := r.db.QueryRow(ctx, query, supplierID, identifier).Scan(&item.ID, &item.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByNameExact returns items whose name equals the given text,
// case-insensitively, in default catalog order.
func (r *CatalogRepository) FindByNameExact(ctx context.Context, name string) ([]CatalogItem, error) {
	query := `
		SELECT id, name FROM catalog_items
		WHERE lower(name) = lower($1)
		ORDER BY name, id
	`
	return r.queryItems(ctx, query, name)
}

// FindByNameContains returns items whose name contains the fragment,
// case-insensitively.
func (r *CatalogRepository) FindByNameContains(ctx context.Context, fragment string) ([]CatalogItem, error) {
	query := `
		SELECT id, name FROM catalog_items
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id
	`
	return r.queryItems(ctx, query, fragment)
}

// FindByAllKeywords returns items whose name contains every keyword.
func (r *CatalogRepository) FindByAllKeywords(ctx context.Context, keywords []string) ([]CatalogItem, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, name FROM catalog_items WHERE 1=1`)
	args := make([]any, 0, len(keywords))
	for i, kw := range keywords {
		fmt.Fprintf(&sb, ` AND name ILIKE '%%' || $%d || '%%'`, i+1)
		args = append(args, kw)
	}
	sb.WriteString(` ORDER BY name, id`)

	return r.queryItems(ctx, sb.String(), args...)
}

// FindSupplierLink returns the link between an item and a supplier, or nil.
func (r *CatalogRepository) FindSupplierLink(ctx context.Context, itemID, supplierID uuid.UUID) (*SupplierLink, error) {
	query := `
		SELECT id, item_id, supplier_id, identifier
		FROM supplier_links
		WHERE item_id = $1 AND supplier_id = $2
		LIMIT 1
	`

	var link SupplierLink
	err := r.db.QueryRow(ctx, query, itemID, supplierID).Scan(
		&link.ID, &link.ItemID, &link.SupplierID, &link.Identifier)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListItems returns the whole catalog in default order, for suggestion
// ranking.
func (r *CatalogRepository) ListItems(ctx context.Context) ([]CatalogItem, error) {
	return r.queryItems(ctx, `SELECT id, name FROM catalog_items ORDER BY name, id`)
}

// CreateLink records the identifier a supplier uses for an item. Conflicts
// on an existing (supplier, identifier) pair are ignored so reprocessing a
// document stays idempotent.
func (r *CatalogRepository) CreateLink(ctx context.Context, itemID, supplierID uuid.UUID, identifier string) error {
	query := `
		INSERT INTO supplier_links (item_id, supplier_id, identifier)
		VALUES ($1, $2, $3)
		ON CONFLICT (supplier_id, identifier) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, itemID, supplierID, identifier)
	return err
}

func (r *CatalogRepository) queryItems(ctx context.Context, query string, args ...any) ([]CatalogItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CatalogItem
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
