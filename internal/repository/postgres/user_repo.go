package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, password_hash, security_question, security_answer_hash, created_at, last_login, failed_attempts, locked_until`

// Create inserts a new user row. Uniqueness of username and email is enforced
// by the database, so concurrent duplicate registrations cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, password_hash, security_question, security_answer_hash)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswerHash)
	if isUniqueViolation(err) {
		return errs.ErrDuplicateIdentity
	}
	return err
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *UserRepo) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.SecurityQuestion,
		&u.SecurityAnswerHash, &u.CreatedAt, &u.LastLogin, &u.FailedAttempts, &u.LockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// RecordFailedAttempt bumps the failure counter and conditionally sets the
// lock in a single statement, so concurrent failed logins cannot lose an
// increment to a read-modify-write race.
func (r *UserRepo) RecordFailedAttempt(ctx context.Context, id uuid.UUID, threshold int, lockedUntil time.Time) (bool, error) {
	const q = `
UPDATE users
SET failed_attempts = failed_attempts + 1,
    locked_until = CASE WHEN failed_attempts + 1 >= $2 THEN $3 ELSE locked_until END
WHERE id=$1
RETURNING failed_attempts`
	var count int
	if err := r.db.Pool.QueryRow(ctx, q, id, threshold, lockedUntil).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, errs.ErrNotFound
		}
		return false, err
	}
	return count >= threshold, nil
}

// RecordSuccess resets lockout state and stamps last_login.
func (r *UserRepo) RecordSuccess(ctx context.Context, id uuid.UUID) error {
	const q = `
UPDATE users
SET failed_attempts = 0, locked_until = NULL, last_login = now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash overwrites the password hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
