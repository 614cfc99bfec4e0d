package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// OrderRepository persists orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Order, error)
	Delete(ctx context.Context, storeID, id string) error
	// MarkPaid flips is_paid only when it is still false and reports whether this call flipped it.
	MarkPaid(ctx context.Context, id string) (bool, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO orders (store_id, customer_id, phone, address, is_paid, total_price)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			o.StoreID,
			o.CustomerID,
			o.Phone,
			o.Address,
			o.IsPaid,
			o.TotalPrice,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}

		const itemQuery = `
            INSERT INTO order_items (order_id, product_id, size_id, color_id, quantity, unit_price, gift_card_amount)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id`
		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID
			if err := tx.QueryRow(ctx, itemQuery,
				item.OrderID,
				item.ProductID,
				item.SizeID,
				item.ColorID,
				item.Quantity,
				item.UnitPrice,
				item.GiftCardAmount,
			).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, store_id, customer_id, phone, address, is_paid, total_price, created_at, updated_at
        FROM orders WHERE id=$1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	const query = `
        SELECT id, store_id, customer_id, phone, address, is_paid, total_price, created_at, updated_at
        FROM orders WHERE store_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) items(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	out := make(map[string][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	const query = `
        SELECT id, order_id, product_id, size_id, color_id, quantity, unit_price, gift_card_amount
        FROM order_items WHERE order_id::text = ANY($1)`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.SizeID,
			&item.ColorID,
			&item.Quantity,
			&item.UnitPrice,
			&item.GiftCardAmount,
		); err != nil {
			return nil, err
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

func (r *orderRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE orders SET is_paid=TRUE, updated_at=NOW() WHERE id=$1 AND is_paid=FALSE`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.StoreID,
		&o.CustomerID,
		&o.Phone,
		&o.Address,
		&o.IsPaid,
		&o.TotalPrice,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
