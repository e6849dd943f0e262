// Package service contains application services for authentication,
// the encrypted ledger and backups.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/repository"
)

// SessionClaims is the signed claim set embedded in every bearer token.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues, verifies and revokes bearer session tokens. Tokens
// are HS256-signed claim sets AND durable rows: the signature alone cannot be
// invalidated before its natural expiry, so verification also requires a
// live session row, which logout deletes.
type SessionManager struct {
	sessions repository.SessionRepository
	signKey  []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager constructs a SessionManager with the given signing key and TTL.
func NewSessionManager(sessions repository.SessionRepository, signKey []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{sessions: sessions, signKey: signKey, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the user and records the session durably.
func (m *SessionManager) Issue(ctx context.Context, user *model.User) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := SessionClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signKey)
	if err != nil {
		return "", time.Time{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", time.Time{}, err
	}
	s := &model.Session{ID: id, UserID: user.ID, Token: token, ExpiresAt: exp}
	if err := m.sessions.Create(ctx, s); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return token, exp, nil
}

// Verify checks both the signature (with embedded expiry) and the session
// row. A structurally valid token whose row was deleted by logout fails with
// errs.ErrTokenRevoked even though its embedded expiry has not elapsed.
func (m *SessionManager) Verify(ctx context.Context, token string) (model.Identity, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, errs.ErrTokenExpired
		}
		return model.Identity{}, errs.ErrTokenMalformed
	}

	userID, err := uuid.FromString(claims.UserID)
	if err != nil {
		return model.Identity{}, errs.ErrTokenMalformed
	}

	// Validity is re-checked against storage on every call, never cached.
	if _, err := m.sessions.GetLive(ctx, token, m.now()); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Identity{}, errs.ErrTokenRevoked
		}
		return model.Identity{}, fmt.Errorf("check session: %w", err)
	}
	return model.Identity{UserID: userID, Username: claims.Username}, nil
}

// Revoke deletes the session row for token; revoking an unknown token is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	return m.sessions.DeleteByToken(ctx, token)
}

// PurgeExpired lazily removes expired session rows. Expired rows are inert
// either way; this only keeps the table from growing without bound.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx, m.now())
}
