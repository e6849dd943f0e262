package service

import (
	"context"
	"testing"
	"time"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byName map[string]*model.User
	byMail map[string]*model.User
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*model.User{}, byMail: map[string]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byName[u.Username]; ok {
		return errs.ErrDuplicateIdentity
	}
	if _, ok := f.byMail[u.Email]; ok {
		return errs.ErrDuplicateIdentity
	}
	cpy := *u
	f.byName[u.Username] = &cpy
	f.byMail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) RecordFailedAttempt(_ context.Context, id uuid.UUID, threshold int, lockedUntil time.Time) (bool, error) {
	for _, u := range f.byName {
		if u.ID == id {
			u.FailedAttempts++
			if u.FailedAttempts >= threshold {
				until := lockedUntil
				u.LockedUntil = &until
				return true, nil
			}
			return false, nil
		}
	}
	return false, errs.ErrNotFound
}

func (f *fakeUsers) RecordSuccess(_ context.Context, id uuid.UUID) error {
	for _, u := range f.byName {
		if u.ID == id {
			now := time.Now()
			u.FailedAttempts = 0
			u.LockedUntil = nil
			u.LastLogin = &now
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash []byte) error {
	for _, u := range f.byName {
		if u.ID == id {
			u.PasswordHash = append([]byte(nil), hash...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func newAuth(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	sessions := NewSessionManager(newFakeSessions(), []byte("sign-key"), 24*time.Hour)
	return NewAuthService(users, sessions), users
}

func register(t *testing.T, s *AuthService, username, password string) {
	t.Helper()
	_, err := s.Register(context.Background(), username, password,
		username+"@example.com", model.SecurityQuestions[0], "Rex")
	require.NoError(t, err)
}

func TestAuth_Register_Duplicate(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)
	ctx := context.Background()

	register(t, s, "alice", "password1")

	// same username, different email
	_, err := s.Register(ctx, "alice", "password2", "other@example.com", model.SecurityQuestions[1], "Oslo")
	require.ErrorIs(t, err, errs.ErrDuplicateIdentity)

	// same email, different username
	_, err = s.Register(ctx, "alice2", "password2", "alice@example.com", model.SecurityQuestions[1], "Oslo")
	require.ErrorIs(t, err, errs.ErrDuplicateIdentity)
}

func TestAuth_Register_ShortPassword(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)

	_, err := s.Register(context.Background(), "bob", "short", "bob@example.com", model.SecurityQuestions[0], "Rex")
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrDuplicateIdentity)
}

func TestAuth_Login_OK(t *testing.T) {
	t.Parallel()
	s, users := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	token, err := s.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	id, err := s.VerifySession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", id.Username)

	u := users.byName["alice"]
	require.Zero(t, u.FailedAttempts)
	require.NotNil(t, u.LastLogin)
}

func TestAuth_Login_InvalidIsIndistinguishable(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	_, unknownUser := s.Login(ctx, "nobody", "password1")
	_, wrongPassword := s.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, unknownUser, errs.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassword, errs.ErrInvalidCredentials)
	require.Equal(t, unknownUser.Error(), wrongPassword.Error())
}

func TestAuth_Login_LockoutAfterFiveFailures(t *testing.T) {
	t.Parallel()
	s, users := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	for i := 0; i < MaxFailedAttempts; i++ {
		_, err := s.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	}

	// 6th attempt fails with AccountLocked even with the correct password,
	// and the attempt is not counted.
	_, err := s.Login(ctx, "alice", "password1")
	require.ErrorIs(t, err, errs.ErrAccountLocked)
	require.Equal(t, MaxFailedAttempts, users.byName["alice"].FailedAttempts)

	// After the lock window elapses the correct password works again and
	// counters reset.
	past := time.Now().Add(-time.Minute)
	users.byName["alice"].LockedUntil = &past

	_, err = s.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	require.Zero(t, users.byName["alice"].FailedAttempts)
	require.Nil(t, users.byName["alice"].LockedUntil)
}

func TestAuth_LogoutRevokesSession(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	token, err := s.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	_, err = s.VerifySession(ctx, token)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, token))
	_, err = s.VerifySession(ctx, token)
	require.ErrorIs(t, err, errs.ErrTokenRevoked)

	// idempotent
	require.NoError(t, s.Logout(ctx, token))
}

func TestAuth_ResetPassword_CaseInsensitiveAnswer(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1") // answer registered as "Rex"

	require.NoError(t, s.ResetPassword(ctx, "alice", "rex", "newpassword"))

	_, err := s.Login(ctx, "alice", "password1")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = s.Login(ctx, "alice", "newpassword")
	require.NoError(t, err)
}

func TestAuth_ResetPassword_WrongAnswerKeepsOldPassword(t *testing.T) {
	t.Parallel()
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	err := s.ResetPassword(ctx, "alice", "fido", "newpassword")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	err = s.ResetPassword(ctx, "nobody", "rex", "newpassword")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = s.Login(ctx, "alice", "password1")
	require.NoError(t, err)
}

func TestAuth_ResetPassword_DoesNotUnlock(t *testing.T) {
	t.Parallel()
	s, users := newAuth(t)
	ctx := context.Background()
	register(t, s, "alice", "password1")

	until := time.Now().Add(LockoutWindow)
	users.byName["alice"].LockedUntil = &until
	users.byName["alice"].FailedAttempts = MaxFailedAttempts

	require.NoError(t, s.ResetPassword(ctx, "alice", "rex", "newpassword"))
	require.NotNil(t, users.byName["alice"].LockedUntil)

	_, err := s.Login(ctx, "alice", "newpassword")
	require.ErrorIs(t, err, errs.ErrAccountLocked)
}
