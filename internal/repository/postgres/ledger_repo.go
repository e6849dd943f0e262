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

// LedgerRepo implements LedgerRepository using PostgreSQL.
type LedgerRepo struct{ db *DB }

// NewLedgerRepo constructs a ledger repository.
func NewLedgerRepo(db *DB) *LedgerRepo { return &LedgerRepo{db: db} }

const (
	deleteSalary = `DELETE FROM salary WHERE user_id=$1`
	insertSalary = `INSERT INTO salary (id, user_id, amount_enc, updated_at) VALUES ($1, $2, $3, $4)`

	deleteTransactions = `DELETE FROM transactions WHERE user_id=$1`
	insertTransaction  = `
INSERT INTO transactions (id, user_id, date, amount_enc, category, description_enc)
VALUES ($1, $2, $3, $4, $5, $6)`
)

// ReplaceSalary deletes any prior salary rows and inserts the new one in a
// single transaction: latest write wins and readers never see an empty window.
func (r *LedgerRepo) ReplaceSalary(ctx context.Context, row *model.SalaryRow) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	if _, err = tx.Exec(ctx, deleteSalary, row.UserID); err != nil {
		return err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, insertSalary, id, row.UserID, row.AmountEnc, row.UpdatedAt)
	return err
}

// GetSalary returns the most recent salary row for the user.
func (r *LedgerRepo) GetSalary(ctx context.Context, userID uuid.UUID) (*model.SalaryRow, error) {
	const q = `
SELECT user_id, amount_enc, updated_at
FROM salary WHERE user_id=$1
ORDER BY updated_at DESC LIMIT 1`
	row := r.db.Pool.QueryRow(ctx, q, userID)
	var s model.SalaryRow
	if err := row.Scan(&s.UserID, &s.AmountEnc, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AddTransaction appends a single transaction row.
func (r *LedgerRepo) AddTransaction(ctx context.Context, row *model.TransactionRow) error {
	_, err := r.db.Pool.Exec(ctx, insertTransaction,
		row.ID, row.UserID, row.Date, row.AmountEnc, string(row.Category), row.DescriptionEnc)
	return err
}

// ListTransactions returns the user's rows ordered by date descending. The
// range bounds are inclusive and each may be omitted independently.
func (r *LedgerRepo) ListTransactions(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]model.TransactionRow, error) {
	q := `
SELECT id, user_id, date, amount_enc, category, description_enc, created_at
FROM transactions WHERE user_id=$1`
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		q += ` AND date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			q += ` AND date <= $3`
		} else {
			q += ` AND date <= $2`
		}
	}
	q += ` ORDER BY date DESC`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TransactionRow
	for rows.Next() {
		var t model.TransactionRow
		var cat string
		if err = rows.Scan(&t.ID, &t.UserID, &t.Date, &t.AmountEnc, &cat, &t.DescriptionEnc, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Category = model.Category(cat)
		out = append(out, t)
	}
	return out, rows.Err()
}

// RestoreAll wipes and re-inserts the user's whole ledger atomically. If any
// insert fails, the transaction rolls back and the previous data survives.
func (r *LedgerRepo) RestoreAll(ctx context.Context, userID uuid.UUID, salary *model.SalaryRow, rows []model.TransactionRow) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	if _, err = tx.Exec(ctx, deleteSalary, userID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, deleteTransactions, userID); err != nil {
		return err
	}
	if salary != nil {
		var id uuid.UUID
		if id, err = uuid.NewV4(); err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, insertSalary, id, userID, salary.AmountEnc, salary.UpdatedAt); err != nil {
			return err
		}
	}
	for i := range rows {
		t := &rows[i]
		if _, err = tx.Exec(ctx, insertTransaction,
			t.ID, userID, t.Date, t.AmountEnc, string(t.Category), t.DescriptionEnc); err != nil {
			return err
		}
	}
	return nil
}
