package repository

import (
	"context"
	"time"

	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/gofrs/uuid/v5"
)

// LedgerRepository stores encrypted salary and transaction rows. Every method
// is scoped to a single owning user; no cross-user access is expressible.
type LedgerRepository interface {
	// ReplaceSalary deletes any existing salary rows for the user and inserts
	// the new one inside a single transaction, so concurrent readers never
	// observe a window with no salary row.
	ReplaceSalary(ctx context.Context, row *model.SalaryRow) error

	// GetSalary returns the most recent salary row; errs.ErrNotFound when none.
	GetSalary(ctx context.Context, userID uuid.UUID) (*model.SalaryRow, error)

	// AddTransaction appends one transaction row.
	AddTransaction(ctx context.Context, row *model.TransactionRow) error

	// ListTransactions returns the user's rows ordered by date descending,
	// optionally bounded by an inclusive date range.
	ListTransactions(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]model.TransactionRow, error)

	// RestoreAll destructively replaces the user's entire salary and
	// transaction history in one transaction. A nil salary restores an empty
	// salary state.
	RestoreAll(ctx context.Context, userID uuid.UUID, salary *model.SalaryRow, rows []model.TransactionRow) error
}
