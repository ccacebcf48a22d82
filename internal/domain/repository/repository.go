package repository

import (
	"context"
	"time"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateActivation writes a fresh token/expiry pair in a single statement
	// so concurrent resends can never leave a token without its expiry.
	UpdateActivation(ctx context.Context, id, token string, expires time.Time) error
	// MarkActivated sets email_verified and clears the token pair atomically.
	MarkActivated(ctx context.Context, id string) error
}

// ActivationLogRepository appends audit rows for activation attempts.
type ActivationLogRepository interface {
	Append(ctx context.Context, a *entity.ActivationAttempt) error
}
