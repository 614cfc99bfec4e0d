package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// ReviewRepository persists storefront review cards.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Review, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, b *domain.Review) error {
	const query = `
        INSERT INTO reviews (store_id, label, image_url)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, b.StoreID, b.Label, b.ImageURL).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *reviewRepository) Update(ctx context.Context, b *domain.Review) error {
	const query = `
        UPDATE reviews SET label=$1, image_url=$2, updated_at=NOW()
        WHERE id=$3 AND store_id=$4
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query, b.Label, b.ImageURL, b.ID, b.StoreID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *reviewRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Review, error) {
	const query = `
        SELECT id, store_id, label, image_url, created_at, updated_at
        FROM reviews WHERE id=$1 AND store_id=$2`

	var b domain.Review
	if err := r.pool.QueryRow(ctx, query, id, storeID).Scan(
		&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *reviewRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Review, error) {
	const query = `
        SELECT id, store_id, label, image_url, created_at, updated_at
        FROM reviews WHERE store_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var b domain.Review
		if err := rows.Scan(&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
