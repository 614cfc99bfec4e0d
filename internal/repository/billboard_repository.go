package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// BillboardRepository persists store billboards.
type BillboardRepository interface {
	Create(ctx context.Context, billboard *domain.Billboard) error
	Update(ctx context.Context, billboard *domain.Billboard) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Billboard, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Billboard, error)
}

type billboardRepository struct {
	pool *pgxpool.Pool
}

// NewBillboardRepository instantiates the repository.
func NewBillboardRepository(pool *pgxpool.Pool) BillboardRepository {
	return &billboardRepository{pool: pool}
}

func (r *billboardRepository) Create(ctx context.Context, b *domain.Billboard) error {
	const query = `
        INSERT INTO billboards (store_id, label, image_url)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, b.StoreID, b.Label, b.ImageURL).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *billboardRepository) Update(ctx context.Context, b *domain.Billboard) error {
	const query = `
        UPDATE billboards SET label=$1, image_url=$2, updated_at=NOW()
        WHERE id=$3 AND store_id=$4
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query, b.Label, b.ImageURL, b.ID, b.StoreID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *billboardRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM billboards WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *billboardRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Billboard, error) {
	const query = `
        SELECT id, store_id, label, image_url, created_at, updated_at
        FROM billboards WHERE id=$1 AND store_id=$2`

	var b domain.Billboard
	if err := r.pool.QueryRow(ctx, query, id, storeID).Scan(
		&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *billboardRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Billboard, error) {
	const query = `
        SELECT id, store_id, label, image_url, created_at, updated_at
        FROM billboards WHERE store_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Billboard
	for rows.Next() {
		var b domain.Billboard
		if err := rows.Scan(&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
