package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

var (
	// ErrCodeTaken means the generated code collided with an existing one.
	ErrCodeTaken = errors.New("gift code already exists")
	// ErrPurchaseExists means the order item already produced a gift code.
	ErrPurchaseExists = errors.New("gift code already issued for order item")
)

// GiftCodeRepository persists gift codes and the purchases that created them.
type GiftCodeRepository interface {
	// CreateWithPurchase inserts the code and its purchase record in one transaction.
	CreateWithPurchase(ctx context.Context, code *domain.GiftCode, purchase *domain.GiftCodePurchase) error
	// OrderItemStore returns the store of the order holding the item.
	OrderItemStore(ctx context.Context, orderItemID string) (string, error)
	GetByOrderItem(ctx context.Context, storeID, orderItemID string) (*domain.GiftCode, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.GiftCode, error)
	Delete(ctx context.Context, storeID, id string) error
}

type giftCodeRepository struct {
	pool *pgxpool.Pool
}

// NewGiftCodeRepository instantiates the repository.
func NewGiftCodeRepository(pool *pgxpool.Pool) GiftCodeRepository {
	return &giftCodeRepository{pool: pool}
}

func (r *giftCodeRepository) CreateWithPurchase(ctx context.Context, code *domain.GiftCode, purchase *domain.GiftCodePurchase) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const codeQuery = `
            INSERT INTO gift_codes (store_id, code, amount, is_active, expires_at)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id, created_at`
		if err := tx.QueryRow(ctx, codeQuery,
			code.StoreID,
			code.Code,
			code.Amount,
			code.IsActive,
			code.ExpiresAt,
		).Scan(&code.ID, &code.CreatedAt); err != nil {
			return err
		}

		const purchaseQuery = `
            INSERT INTO gift_code_purchases (gift_code_id, order_item_id, customer_id)
            VALUES ($1,$2,$3)
            RETURNING id, created_at`
		purchase.GiftCodeID = code.ID
		return tx.QueryRow(ctx, purchaseQuery,
			purchase.GiftCodeID,
			purchase.OrderItemID,
			purchase.CustomerID,
		).Scan(&purchase.ID, &purchase.CreatedAt)
	})
	if constraint, dup := uniqueViolation(err); dup {
		if constraint == "gift_codes_code_key" {
			return ErrCodeTaken
		}
		return ErrPurchaseExists
	}
	return err
}

func (r *giftCodeRepository) OrderItemStore(ctx context.Context, orderItemID string) (string, error) {
	const query = `
        SELECT o.store_id
        FROM order_items i
        JOIN orders o ON o.id = i.order_id
        WHERE i.id=$1`
	var storeID string
	if err := r.pool.QueryRow(ctx, query, orderItemID).Scan(&storeID); err != nil {
		return "", err
	}
	return storeID, nil
}

func (r *giftCodeRepository) GetByOrderItem(ctx context.Context, storeID, orderItemID string) (*domain.GiftCode, error) {
	const query = `
        SELECT g.id, g.store_id, g.code, g.amount, g.is_active, g.expires_at, g.created_at
        FROM gift_codes g
        JOIN gift_code_purchases p ON p.gift_code_id = g.id
        JOIN order_items i ON i.id = p.order_item_id
        JOIN orders o ON o.id = i.order_id
        WHERE p.order_item_id=$1 AND g.store_id=$2 AND o.store_id=$2`
	return scanGiftCode(r.pool.QueryRow(ctx, query, orderItemID, storeID))
}

func (r *giftCodeRepository) ListByStore(ctx context.Context, storeID string) ([]domain.GiftCode, error) {
	const query = `
        SELECT id, store_id, code, amount, is_active, expires_at, created_at
        FROM gift_codes WHERE store_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GiftCode
	for rows.Next() {
		g, err := scanGiftCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *giftCodeRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM gift_codes WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanGiftCode(row pgx.Row) (*domain.GiftCode, error) {
	var g domain.GiftCode
	if err := row.Scan(&g.ID, &g.StoreID, &g.Code, &g.Amount, &g.IsActive, &g.ExpiresAt, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
