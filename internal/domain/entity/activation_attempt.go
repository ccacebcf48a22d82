package entity

import "time"

// ActivationAttempt is one append-only audit row recorded per resend attempt.
// Rows are never updated or deleted.
type ActivationAttempt struct {
	ID          string
	Email       string
	AccountType string
	IP          string
	UserAgent   string
	Success     bool
	ErrorDetail string
	CreatedAt   time.Time
}
