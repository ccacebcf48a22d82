package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, account_type, password_hash, email_verified, email_verify_token, email_verify_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AccountType, &u.PasswordHash,
		&u.EmailVerified, &u.ActivationToken, &u.ActivationExpires,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, account_type, password_hash, email_verified, email_verify_token, email_verify_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Name, u.AccountType, u.PasswordHash, u.EmailVerified, u.ActivationToken, u.ActivationExpires)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = lower($1)
	`, email)
	return scanUser(row)
}

// UpdateActivation writes token and expiry in one statement; concurrent
// resends race safely with last-writer-wins, never a split pair.
func (r *UserRepository) UpdateActivation(ctx context.Context, id, token string, expires time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email_verify_token = $1, email_verify_expires = $2, updated_at = now()
		WHERE id = $3 AND email_verified = false
	`, token, expires, id)
	if err != nil {
		return fmt.Errorf("update activation: %w", err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *UserRepository) MarkActivated(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email_verified = true, email_verify_token = NULL, email_verify_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark activated: %w", err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
