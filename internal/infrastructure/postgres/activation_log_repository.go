package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/internal/domain/repository"
)

// ActivationLogRepository appends rows to the activation_attempts audit
// table. Rows are insert-only; there is no update or delete path.
type ActivationLogRepository struct {
	pool *pgxpool.Pool
}

func NewActivationLogRepository(pool *pgxpool.Pool) *ActivationLogRepository {
	return &ActivationLogRepository{pool: pool}
}

func (r *ActivationLogRepository) Append(ctx context.Context, a *entity.ActivationAttempt) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activation_attempts (email, account_type, ip, user_agent, success, error_detail)
		VALUES ($1, $2, nullif($3, ''), nullif($4, ''), $5, nullif($6, ''))
		RETURNING id, created_at
	`, a.Email, a.AccountType, a.IP, a.UserAgent, a.Success, a.ErrorDetail)

	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("append activation attempt: %w", err)
	}
	return nil
}

var _ repository.ActivationLogRepository = (*ActivationLogRepository)(nil)
