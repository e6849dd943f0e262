package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/jackc/pgx/v5"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, token, expires_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.UserID, s.Token, s.ExpiresAt)
	return err
}

// GetLive selects the session for token if it has not expired as of now.
func (r *SessionRepo) GetLive(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	const q = `
SELECT id, user_id, token, expires_at
FROM sessions WHERE token=$1 AND expires_at > $2`
	row := r.db.Pool.QueryRow(ctx, q, token, now)
	var s model.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteByToken removes the session row; deleting an absent token is a no-op.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE token=$1`
	_, err := r.db.Pool.Exec(ctx, q, token)
	return err
}

// DeleteExpired purges rows whose expiry has passed.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at <= $1`
	tag, err := r.db.Pool.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
