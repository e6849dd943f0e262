// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides access to credential rows and lockout state.
type UserRepository interface {
	// Create inserts a new user; errs.ErrDuplicateIdentity on username/email collision.
	Create(ctx context.Context, u *model.User) error

	// GetByUsername loads a user by username; errs.ErrNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// RecordFailedAttempt atomically increments failed_attempts and, when the
	// new count reaches threshold, sets locked_until to the provided instant.
	// Reports whether the account is now locked.
	RecordFailedAttempt(ctx context.Context, id uuid.UUID, threshold int, lockedUntil time.Time) (bool, error)

	// RecordSuccess zeroes failed_attempts, clears locked_until and stamps last_login.
	RecordSuccess(ctx context.Context, id uuid.UUID) error

	// UpdatePasswordHash overwrites the stored password hash.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
}
