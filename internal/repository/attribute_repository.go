package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// AttributeRepository persists sizes or colors; one instance per table.
type AttributeRepository interface {
	Kind() domain.AttributeKind
	Create(ctx context.Context, attr *domain.Attribute) error
	Update(ctx context.Context, attr *domain.Attribute) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Attribute, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Attribute, error)
}

type attributeRepository struct {
	pool  *pgxpool.Pool
	kind  domain.AttributeKind
	table string
}

// NewAttributeRepository instantiates the repository for the given option kind.
func NewAttributeRepository(pool *pgxpool.Pool, kind domain.AttributeKind) AttributeRepository {
	table := "sizes"
	if kind == domain.AttributeColor {
		table = "colors"
	}
	return &attributeRepository{pool: pool, kind: kind, table: table}
}

func (r *attributeRepository) Kind() domain.AttributeKind {
	return r.kind
}

func (r *attributeRepository) Create(ctx context.Context, a *domain.Attribute) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (store_id, name, value)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`, r.table)
	a.Kind = r.kind
	return r.pool.QueryRow(ctx, query, a.StoreID, a.Name, a.Value).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *attributeRepository) Update(ctx context.Context, a *domain.Attribute) error {
	query := fmt.Sprintf(`
        UPDATE %s SET name=$1, value=$2, updated_at=NOW()
        WHERE id=$3 AND store_id=$4
        RETURNING created_at, updated_at`, r.table)
	a.Kind = r.kind
	return r.pool.QueryRow(ctx, query, a.Name, a.Value, a.ID, a.StoreID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *attributeRepository) Delete(ctx context.Context, storeID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=$1 AND store_id=$2`, r.table)
	cmd, err := r.pool.Exec(ctx, query, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attributeRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Attribute, error) {
	query := fmt.Sprintf(`
        SELECT id, store_id, name, value, created_at, updated_at
        FROM %s WHERE id=$1 AND store_id=$2`, r.table)

	a := domain.Attribute{Kind: r.kind}
	if err := r.pool.QueryRow(ctx, query, id, storeID).Scan(
		&a.ID, &a.StoreID, &a.Name, &a.Value, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attributeRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Attribute, error) {
	query := fmt.Sprintf(`
        SELECT id, store_id, name, value, created_at, updated_at
        FROM %s WHERE store_id=$1
        ORDER BY created_at DESC`, r.table)

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attribute
	for rows.Next() {
		a := domain.Attribute{Kind: r.kind}
		if err := rows.Scan(&a.ID, &a.StoreID, &a.Name, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
