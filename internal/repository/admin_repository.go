package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-admin/internal/domain"
)

// AdminRepository defines persistence access for dashboard admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// UpdatePassword stores the new hash and bumps the token version in one statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) (int, error)
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, token_version, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, admin.Email, admin.PasswordHash).
		Scan(&admin.ID, &admin.TokenVersion, &admin.CreatedAt, &admin.UpdatedAt)
	if _, dup := uniqueViolation(err); dup {
		return ErrDuplicate
	}
	return err
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	const query = `
        SELECT id, email, password_hash, token_version, created_at, updated_at
        FROM admins WHERE id=$1`
	return scanAdmin(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `
        SELECT id, email, password_hash, token_version, created_at, updated_at
        FROM admins WHERE LOWER(email)=LOWER($1)`
	return scanAdmin(r.pool.QueryRow(ctx, query, email))
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (int, error) {
	const query = `
        UPDATE admins SET password_hash=$1, token_version=token_version+1, updated_at=NOW()
        WHERE id=$2
        RETURNING token_version`

	var version int
	if err := r.pool.QueryRow(ctx, query, passwordHash, id).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *adminRepository) IncrementTokenVersion(ctx context.Context, id string) (int, error) {
	const query = `
        UPDATE admins SET token_version=token_version+1, updated_at=NOW()
        WHERE id=$1
        RETURNING token_version`

	var version int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.TokenVersion,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
