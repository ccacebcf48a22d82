package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the session artifact.
const CookieName = "session_token"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Claims are the JWT claims embedded in the session artifact.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and validates signed session tokens. Tokens are HS256 JWTs
// cross-checked against a Redis session hash, so a signature alone is not
// enough once the server-side session is gone.
type Manager struct {
	Secret []byte
	TTL    time.Duration
	Redis  *redis.Client
}

func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{Secret: []byte(secret), TTL: ttl, Redis: rdb}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Issue mints a session token for the user and records the session hash in
// Redis with the configured TTL.
func (m *Manager) Issue(ctx context.Context, userID, email string) (string, time.Time, error) {
	sid := uuid.NewString()
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		UserID:    userID,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	if m.Redis != nil {
		key := sessionKey(userID)
		pipe := m.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    userID,
			"email":      email,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, m.TTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return "", time.Time{}, err
		}
	}
	return signed, exp, nil
}

// Validate parses and verifies a session token, then confirms the session is
// still live in Redis and its sid matches. An empty value is ErrNoSession.
func (m *Manager) Validate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidSession
	}
	if m.Redis != nil {
		data, err := m.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return nil, ErrInvalidSession
		}
	}
	return claims, nil
}

// Revoke deletes the server-side session, invalidating outstanding tokens.
func (m *Manager) Revoke(ctx context.Context, userID string) error {
	if m.Redis == nil {
		return nil
	}
	return m.Redis.Del(ctx, sessionKey(userID)).Err()
}
