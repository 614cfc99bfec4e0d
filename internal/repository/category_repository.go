package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// CategoryRepository persists product categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Category, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = `id, store_id, billboard_id, name, image_url, created_at, updated_at`

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	const query = `
        INSERT INTO categories (store_id, billboard_id, name, image_url)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.StoreID, c.BillboardID, c.Name, c.ImageURL).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	const query = `
        UPDATE categories SET billboard_id=$1, name=$2, image_url=$3, updated_at=NOW()
        WHERE id=$4 AND store_id=$5
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.BillboardID, c.Name, c.ImageURL, c.ID, c.StoreID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *categoryRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id=$1 AND store_id=$2`

	var c domain.Category
	if err := r.pool.QueryRow(ctx, query, id, storeID).Scan(
		&c.ID, &c.StoreID, &c.BillboardID, &c.Name, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE store_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.BillboardID, &c.Name, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
