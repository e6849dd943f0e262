// Package crypto implements password hashing and the symmetric data cipher.
package crypto

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt hash of password at the default cost.
// The cost is deliberately slow (hundreds of milliseconds) to throttle
// brute-force attempts; callers block for that duration.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// HashAnswer hashes a security answer. Answers are matched
// case-insensitively, so the input is lower-cased before hashing.
func HashAnswer(answer string) ([]byte, error) {
	return HashPassword(strings.ToLower(answer))
}

// VerifyAnswer reports whether answer matches the stored hash, ignoring case.
func VerifyAnswer(answer string, hash []byte) bool {
	return VerifyPassword(strings.ToLower(answer), hash)
}
