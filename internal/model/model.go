// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Category is a budget category under the 50/30/20 split.
type Category string

// Fixed category set; stored as plaintext alongside encrypted amounts.
const (
	CategoryNeeds   Category = "Needs"
	CategoryWants   Category = "Wants"
	CategorySavings Category = "Savings"
)

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryNeeds, CategoryWants, CategorySavings:
		return true
	}
	return false
}

// SecurityQuestions is the fixed catalogue offered at registration.
var SecurityQuestions = []string{
	"What was your first pet's name?",
	"What city were you born in?",
	"What was your mother's maiden name?",
}

// User is an account row. Password and security answer are stored only as
// salted bcrypt hashes; the answer is lower-cased before hashing.
type User struct {
	ID                 uuid.UUID
	Username           string // unique
	Email              string // unique
	PasswordHash       []byte
	SecurityQuestion   string
	SecurityAnswerHash []byte
	CreatedAt          time.Time
	LastLogin          *time.Time
	FailedAttempts     int
	LockedUntil        *time.Time
}

// LockedAt reports whether the account is locked out at the given instant.
// The lock expires passively: once now passes LockedUntil the account is
// usable again without any explicit clearing.
func (u *User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Session is a durable record of an issued bearer token. A session is valid
// only while now < ExpiresAt; logout deletes the row.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string // unique
	ExpiresAt time.Time
}

// Identity is the verified subject of a session token.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// SalaryRow is the stored form of a salary record: amount is ciphertext.
// At most one logical row per user survives an update.
type SalaryRow struct {
	UserID    uuid.UUID
	AmountEnc []byte
	UpdatedAt time.Time
}

// TransactionRow is the stored form of a transaction. Amount and description
// are ciphertext; category and date stay plaintext for filtering.
type TransactionRow struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Date           time.Time
	AmountEnc      []byte
	Category       Category
	DescriptionEnc []byte // nil when no description was given
	CreatedAt      time.Time
}

// Transaction is a decrypted transaction as seen by callers.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      float64
	Category    Category
	Description string
	CreatedAt   time.Time
}

// BackupInfo describes one stored backup blob, newest first in listings.
type BackupInfo struct {
	Name      string
	CreatedAt time.Time
}
