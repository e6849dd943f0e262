package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/akarpov87/budget-keeper/internal/crypto"
	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/repository"
)

// Lockout policy: five consecutive failures lock the account for 30 minutes.
// The lock expires passively and is cleared on the next successful login.
const (
	MaxFailedAttempts = 5
	LockoutWindow     = 30 * time.Minute

	// MinPasswordLen is enforced at the presentation boundary and re-checked
	// here defensively.
	MinPasswordLen = 8
)

// AuthService composes the credential store and session manager into the
// user-facing register/login/logout/reset operations.
type AuthService struct {
	users    repository.UserRepository
	sessions *SessionManager
	now      func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions *SessionManager) *AuthService {
	return &AuthService{users: users, sessions: sessions, now: time.Now}
}

// Register creates a new account. The password and the lower-cased security
// answer are stored only as bcrypt hashes. Username/email collisions fail
// with errs.ErrDuplicateIdentity, enforced atomically by storage.
func (s *AuthService) Register(ctx context.Context, username, password, email, question, answer string) (uuid.UUID, error) {
	if username == "" || email == "" || question == "" || answer == "" {
		return uuid.Nil, errors.New("validation: empty registration field")
	}
	if len(password) < MinPasswordLen {
		return uuid.Nil, fmt.Errorf("validation: password shorter than %d characters", MinPasswordLen)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	pwdHash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return uuid.Nil, err
	}
	answerHash, err := pkgcrypto.HashAnswer(answer)
	if err != nil {
		return uuid.Nil, err
	}

	u := &model.User{
		ID:                 id,
		Username:           username,
		Email:              email,
		PasswordHash:       pwdHash,
		SecurityQuestion:   question,
		SecurityAnswerHash: answerHash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Login authenticates and returns a session token. Unknown usernames and
// wrong passwords both fail with errs.ErrInvalidCredentials so accounts
// cannot be enumerated; a locked account is reported distinctly and the
// attempt is not counted.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrInvalidCredentials
		}
		return "", err
	}

	if u.LockedAt(s.now()) {
		return "", errs.ErrAccountLocked
	}

	if !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		lockedUntil := s.now().Add(LockoutWindow)
		if _, err := s.users.RecordFailedAttempt(ctx, u.ID, MaxFailedAttempts, lockedUntil); err != nil {
			return "", err
		}
		return "", errs.ErrInvalidCredentials
	}

	if err := s.users.RecordSuccess(ctx, u.ID); err != nil {
		return "", err
	}
	token, _, err := s.sessions.Issue(ctx, u)
	return token, err
}

// Logout revokes the session; idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// VerifySession resolves a bearer token to a bound user identity.
func (s *AuthService) VerifySession(ctx context.Context, token string) (model.Identity, error) {
	return s.sessions.Verify(ctx, token)
}

// ResetPassword overwrites the password after verifying the security answer
// case-insensitively. It never requires the current password and never
// touches lockout state.
func (s *AuthService) ResetPassword(ctx context.Context, username, answer, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return fmt.Errorf("validation: password shorter than %d characters", MinPasswordLen)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrInvalidCredentials
		}
		return err
	}
	if !pkgcrypto.VerifyAnswer(answer, u.SecurityAnswerHash) {
		return errs.ErrInvalidCredentials
	}

	hash, err := pkgcrypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, u.ID, hash)
}
