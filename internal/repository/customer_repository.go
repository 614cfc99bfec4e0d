package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// CustomerRepository persists storefront customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, storeID, id string) (*domain.Customer, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, storeID, id string) error
	// AdjustBalance adds delta (minor units, may be negative) and returns the updated row.
	AdjustBalance(ctx context.Context, storeID, id string, delta int64) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, store_id, name, email, phone, balance, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	const query = `
        INSERT INTO customers (store_id, name, email, phone, balance)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.StoreID, c.Name, c.Email, c.Phone, c.Balance).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1 AND store_id=$2`
	return scanCustomer(r.pool.QueryRow(ctx, query, id, storeID))
}

func (r *customerRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE store_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, email=$2, phone=$3, updated_at=NOW()
        WHERE id=$4 AND store_id=$5
        RETURNING balance, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.ID, c.StoreID).
		Scan(&c.Balance, &c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepository) Delete(ctx context.Context, storeID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1 AND store_id=$2`, id, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) AdjustBalance(ctx context.Context, storeID, id string, delta int64) (*domain.Customer, error) {
	query := `
        UPDATE customers SET balance=balance+$1, updated_at=NOW()
        WHERE id=$2 AND store_id=$3
        RETURNING ` + customerColumns
	return scanCustomer(r.pool.QueryRow(ctx, query, delta, id, storeID))
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Balance,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
