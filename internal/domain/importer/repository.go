package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists imported catalog items. Catalog names are not unique
// at the schema level, so the upsert is a lookup by lowercased name followed
// by an insert; the import path is the only writer of catalog_items.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates an importer repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// UpsertItem returns the id of the catalog item with the given name,
// creating it when absent. Lookup is case-insensitive; the stored spelling
// of an existing item wins.
func (r *Repository) UpsertItem(ctx context.Context, name string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM catalog_items WHERE lower(name) = lower($1) ORDER BY name, id LIMIT 1`,
		name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, false, err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO catalog_items (name) VALUES ($1) RETURNING id`,
		name).Scan(&id)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// EnsureSupplier returns the id of the named supplier, creating it when
// absent.
func (r *Repository) EnsureSupplier(ctx context.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name).Scan(&id)
	return id, err
}
