package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/internal/domain/repository"
	"github.com/rimsapp/rims-activation/pkg/credentials"
	"github.com/rimsapp/rims-activation/pkg/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
)

// AuthService handles login/logout against verified accounts.
type AuthService struct {
	Users    repository.UserRepository
	Sessions *session.Manager
	Logger   *logrus.Logger
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Logger: logger}
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates email/password and issues a session for verified
// accounts. Unverified accounts are rejected with ErrEmailNotVerified so
// the handler can point the caller at the resend flow.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, credentials.NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !credentials.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, exp, err := s.Sessions.Issue(ctx, u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue session failed")
		}
		return nil, err
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// Logout revokes the server-side session for the user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Revoke(ctx, userID)
}
