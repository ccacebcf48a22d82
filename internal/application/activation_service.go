package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/internal/domain/repository"
	"github.com/rimsapp/rims-activation/pkg/activation"
	"github.com/rimsapp/rims-activation/pkg/credentials"
)

// ResendOutcome enumerates the outward-facing results of a resend request.
// OutcomeGenericOK covers the unknown-account case: it is reported exactly
// like a success so responses never disclose whether an email is registered.
type ResendOutcome int

const (
	OutcomeEmailSent ResendOutcome = iota
	OutcomeEmailFailed
	OutcomeAlreadyActivated
	OutcomeGenericOK
)

type ResendInput struct {
	Email     string
	IP        string
	UserAgent string
}

type ResendResult struct {
	Outcome ResendOutcome
}

// ActivationService orchestrates issuing, resending, and consuming
// activation tokens against the user store.
type ActivationService struct {
	Users           repository.UserRepository
	Tokens          *activation.Generator
	Dispatcher      Dispatcher
	Auditor         *Auditor
	Logger          *logrus.Logger
	DispatchTimeout time.Duration
}

func NewActivationService(users repository.UserRepository, tokens *activation.Generator, d Dispatcher, auditor *Auditor, logger *logrus.Logger, dispatchTimeout time.Duration) *ActivationService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 10 * time.Second
	}
	return &ActivationService{
		Users:           users,
		Tokens:          tokens,
		Dispatcher:      d,
		Auditor:         auditor,
		Logger:          logger,
		DispatchTimeout: dispatchTimeout,
	}
}

// Resend issues a fresh activation token for a pending account and asks the
// dispatcher to deliver it. A reissue invalidates any previous outstanding
// token: only the newest persisted token is ever honored. Email-dispatch
// failure does not roll back the token; the cause may be transient and the
// caller can retry.
func (s *ActivationService) Resend(ctx context.Context, in ResendInput) (ResendResult, error) {
	email := credentials.NormalizeEmail(in.Email)
	if !credentials.ValidEmail(email) {
		return ResendResult{}, entity.ErrInvalidEmail
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		// Unknown account: audit and report a generic success.
		s.Auditor.Record(ctx, &entity.ActivationAttempt{
			Email:       email,
			IP:          in.IP,
			UserAgent:   in.UserAgent,
			Success:     false,
			ErrorDetail: "unknown account",
		})
		return ResendResult{Outcome: OutcomeGenericOK}, nil
	}
	if err != nil {
		return ResendResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if u.EmailVerified {
		s.Auditor.Record(ctx, &entity.ActivationAttempt{
			Email:       email,
			AccountType: u.AccountType,
			IP:          in.IP,
			UserAgent:   in.UserAgent,
			Success:     false,
			ErrorDetail: "already activated",
		})
		return ResendResult{Outcome: OutcomeAlreadyActivated}, nil
	}

	token, err := s.Tokens.New()
	if err != nil {
		return ResendResult{}, fmt.Errorf("generate token: %w", err)
	}
	expires := s.Tokens.ExpiryFrom(time.Now())

	// Persist before dispatch; a storage failure aborts the whole operation.
	if err := s.Users.UpdateActivation(ctx, u.ID, token, expires); err != nil {
		s.Auditor.Record(ctx, &entity.ActivationAttempt{
			Email:       email,
			AccountType: u.AccountType,
			IP:          in.IP,
			UserAgent:   in.UserAgent,
			Success:     false,
			ErrorDetail: "storage failure",
		})
		return ResendResult{}, fmt.Errorf("persist activation token: %w", err)
	}

	dctx, cancel := context.WithTimeout(ctx, s.DispatchTimeout)
	defer cancel()
	res := s.Dispatcher.SendActivation(dctx, ActivationEmail{
		To:        u.Email,
		Name:      u.Name,
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC1123),
		IsResend:  true,
	})

	att := &entity.ActivationAttempt{
		Email:       email,
		AccountType: u.AccountType,
		IP:          in.IP,
		UserAgent:   in.UserAgent,
		Success:     res.Sent,
		ErrorDetail: res.Err,
	}
	s.Auditor.Record(ctx, att)

	if !res.Sent {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"email": email, "error": res.Err}).Warn("activation email dispatch failed")
		}
		return ResendResult{Outcome: OutcomeEmailFailed}, nil
	}
	return ResendResult{Outcome: OutcomeEmailSent}, nil
}

// Confirm consumes an activation token. It succeeds only when the stored
// token matches, is unexpired, and the account is still pending; every
// mismatch collapses to ErrInvalidOrExpiredToken so callers cannot probe
// which condition failed.
func (s *ActivationService) Confirm(ctx context.Context, email, token string) error {
	email = credentials.NormalizeEmail(email)
	if !credentials.ValidEmail(email) || token == "" {
		return entity.ErrInvalidOrExpiredToken
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	if !u.TokenValidAt(token, time.Now()) {
		return entity.ErrInvalidOrExpiredToken
	}

	if err := s.Users.MarkActivated(ctx, u.ID); err != nil {
		return fmt.Errorf("mark activated: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("account activated")
	}
	return nil
}
