package repository

import (
	"context"
	"time"

	"github.com/akarpov87/budget-keeper/internal/model"
)

// SessionRepository provides durable storage of issued session tokens.
type SessionRepository interface {
	// Create inserts a session row for a freshly issued token.
	Create(ctx context.Context, s *model.Session) error

	// GetLive returns the session for token if one exists and has not expired
	// as of now; errs.ErrNotFound otherwise. Validity is re-checked on every
	// call, never cached.
	GetLive(ctx context.Context, token string, now time.Time) (*model.Session, error)

	// DeleteByToken removes the session row; no error if already absent.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes rows whose expiry has passed and reports how many.
	// Expired rows are inert either way; this is lazy cleanup, not enforcement.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
