package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// ProductFilter captures storefront listing parameters.
type ProductFilter struct {
	StoreID         string
	CategoryID      *string
	SizeID          *string
	ColorID         *string
	IsFeatured      *bool
	IncludeArchived bool
}

// ProductRepository persists products together with images, options and gift prices.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Product, error)
	GetMany(ctx context.Context, storeID string, ids []string) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates the repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productSelect = `
        SELECT p.id, p.store_id, p.category_id, p.name, p.description, p.price,
               p.is_featured, p.is_archived, p.is_gift_card, p.created_at, p.updated_at,
               COALESCE((SELECT array_agg(i.id::text ORDER BY i.position) FROM product_images i WHERE i.product_id=p.id), '{}'::text[]),
               COALESCE((SELECT array_agg(i.url ORDER BY i.position) FROM product_images i WHERE i.product_id=p.id), '{}'::text[]),
               COALESCE((SELECT array_agg(s.size_id::text) FROM product_sizes s WHERE s.product_id=p.id), '{}'::text[]),
               COALESCE((SELECT array_agg(c.color_id::text) FROM product_colors c WHERE c.product_id=p.id), '{}'::text[]),
               COALESCE((SELECT array_agg(g.value ORDER BY g.value) FROM product_gift_prices g WHERE g.product_id=p.id), '{}'::bigint[])
        FROM products p`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO products (store_id, category_id, name, description, price, is_featured, is_archived, is_gift_card)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			p.StoreID,
			p.CategoryID,
			p.Name,
			p.Description,
			p.Price,
			p.IsFeatured,
			p.IsArchived,
			p.IsGiftCard,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		return writeProductChildren(ctx, tx, p)
	})
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE products SET category_id=$1, name=$2, description=$3, price=$4,
                is_featured=$5, is_archived=$6, is_gift_card=$7, updated_at=NOW()
            WHERE id=$8 AND store_id=$9
            RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			p.CategoryID,
			p.Name,
			p.Description,
			p.Price,
			p.IsFeatured,
			p.IsArchived,
			p.IsGiftCard,
			p.ID,
			p.StoreID,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		for _, table := range []string{"product_images", "product_sizes", "product_colors", "product_gift_prices"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE product_id=$1`, table), p.ID); err != nil {
				return err
			}
		}
		return writeProductChildren(ctx, tx, p)
	})
}

func writeProductChildren(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	for i := range p.Images {
		if err := tx.QueryRow(ctx,
			`INSERT INTO product_images (product_id, url, position) VALUES ($1,$2,$3) RETURNING id`,
			p.ID, p.Images[i].URL, i,
		).Scan(&p.Images[i].ID); err != nil {
			return err
		}
	}
	for _, id := range p.SizeIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO product_sizes (product_id, size_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`, p.ID, id); err != nil {
			return err
		}
	}
	for _, id := range p.ColorIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO product_colors (product_id, color_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`, p.ID, id); err != nil {
			return err
		}
	}
	for _, v := range p.GiftPrices {
		if _, err := tx.Exec(ctx, `INSERT INTO product_gift_prices (product_id, value) VALUES ($1,$2) ON CONFLICT DO NOTHING`, p.ID, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Product, error) {
	query := productSelect + ` WHERE p.id=$1 AND p.store_id=$2`
	return scanProduct(r.pool.QueryRow(ctx, query, id, storeID))
}

func (r *productRepository) GetMany(ctx context.Context, storeID string, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := productSelect + ` WHERE p.store_id=$1 AND p.id::text = ANY($2)`
	return r.query(ctx, query, storeID, ids)
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	args := []any{filter.StoreID}
	clauses := []string{"p.store_id=$1"}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("p.category_id=$%d", len(args)))
	}
	if filter.SizeID != nil {
		args = append(args, *filter.SizeID)
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM product_sizes s WHERE s.product_id=p.id AND s.size_id=$%d)", len(args)))
	}
	if filter.ColorID != nil {
		args = append(args, *filter.ColorID)
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM product_colors c WHERE c.product_id=p.id AND c.color_id=$%d)", len(args)))
	}
	if filter.IsFeatured != nil {
		args = append(args, *filter.IsFeatured)
		clauses = append(clauses, fmt.Sprintf("p.is_featured=$%d", len(args)))
	}
	if !filter.IncludeArchived {
		clauses = append(clauses, "p.is_archived=FALSE")
	}

	query := productSelect + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY p.created_at DESC"
	return r.query(ctx, query, args...)
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		imageIDs  []string
		imageURLs []string
	)
	if err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.IsFeatured,
		&p.IsArchived,
		&p.IsGiftCard,
		&p.CreatedAt,
		&p.UpdatedAt,
		&imageIDs,
		&imageURLs,
		&p.SizeIDs,
		&p.ColorIDs,
		&p.GiftPrices,
	); err != nil {
		return nil, err
	}
	p.Images = make([]domain.ProductImage, 0, len(imageURLs))
	for i, url := range imageURLs {
		img := domain.ProductImage{URL: url}
		if i < len(imageIDs) {
			img.ID = imageIDs[i]
		}
		p.Images = append(p.Images, img)
	}
	return &p, nil
}
