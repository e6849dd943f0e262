// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Classified failures surfaced across the service boundary. Anything not
// matching one of these is a storage or internal fault and is propagated
// wrapped, never masked as success.
var (
	// ErrDuplicateIdentity indicates the username or email is already taken.
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// ErrInvalidCredentials covers unknown username, wrong password and wrong
	// security answer alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked indicates the lockout window is still open.
	ErrAccountLocked = errors.New("account locked")

	// ErrUnauthenticated indicates a ledger/backup call without a bound user id.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrTokenExpired indicates the signed claim's embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates a bad signature or structure.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenRevoked indicates a structurally valid token with no live session row.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrDecrypt indicates ciphertext unreadable under the current key or tampered.
	ErrDecrypt = errors.New("decryption failed")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
