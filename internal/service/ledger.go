package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/akarpov87/budget-keeper/internal/crypto"
	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/repository"
)

// LedgerService stores per-user financial records with every sensitive field
// passed through the cipher before persistence and after retrieval. Every
// operation requires a bound user id; there is no way to query across users.
type LedgerService struct {
	repo   repository.LedgerRepository
	cipher *pkgcrypto.Cipher
	now    func() time.Time
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(repo repository.LedgerRepository, cipher *pkgcrypto.Cipher) *LedgerService {
	return &LedgerService{repo: repo, cipher: cipher, now: time.Now}
}

// Amounts travel inside ciphertext as decimal strings, so values round-trip
// exactly as entered.
func encodeAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func decodeAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// SetSalary replaces the user's current salary record; latest write wins and
// no history is retained.
func (s *LedgerService) SetSalary(ctx context.Context, userID uuid.UUID, amount float64) error {
	if userID == uuid.Nil {
		return errs.ErrUnauthenticated
	}
	enc, err := s.cipher.EncryptString(encodeAmount(amount))
	if err != nil {
		return err
	}
	return s.repo.ReplaceSalary(ctx, &model.SalaryRow{
		UserID:    userID,
		AmountEnc: enc,
		UpdatedAt: s.now(),
	})
}

// GetSalary returns the current salary, or 0 when none has been set.
func (s *LedgerService) GetSalary(ctx context.Context, userID uuid.UUID) (float64, error) {
	if userID == uuid.Nil {
		return 0, errs.ErrUnauthenticated
	}
	row, err := s.repo.GetSalary(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	plain, err := s.cipher.DecryptString(row.AmountEnc)
	if err != nil {
		return 0, err
	}
	amount, err := decodeAmount(plain)
	if err != nil {
		return 0, fmt.Errorf("parse salary: %w", err)
	}
	return amount, nil
}

// AddTransaction appends an immutable transaction. Amount and description
// are encrypted per field; category and date stay plaintext for filtering.
// Category membership is validated at the boundary.
func (s *LedgerService) AddTransaction(ctx context.Context, userID uuid.UUID, date time.Time, amount float64, category model.Category, description string) error {
	if userID == uuid.Nil {
		return errs.ErrUnauthenticated
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	amountEnc, err := s.cipher.EncryptString(encodeAmount(amount))
	if err != nil {
		return err
	}
	var descEnc []byte
	if description != "" {
		if descEnc, err = s.cipher.EncryptString(description); err != nil {
			return err
		}
	}
	return s.repo.AddTransaction(ctx, &model.TransactionRow{
		ID:             id,
		UserID:         userID,
		Date:           date,
		AmountEnc:      amountEnc,
		Category:       category,
		DescriptionEnc: descEnc,
	})
}

// ListTransactions returns the user's transactions ordered by date
// descending, optionally bounded by an inclusive date range. Any row that
// fails to decrypt aborts the whole listing with errs.ErrDecrypt: a
// partially-decryptable set is never silently truncated.
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]model.Transaction, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	rows, err := s.repo.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(rows))
	for i := range rows {
		t, err := s.decryptRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *LedgerService) decryptRow(row *model.TransactionRow) (model.Transaction, error) {
	plain, err := s.cipher.DecryptString(row.AmountEnc)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := decodeAmount(plain)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	var desc string
	if row.DescriptionEnc != nil {
		if desc, err = s.cipher.DecryptString(row.DescriptionEnc); err != nil {
			return model.Transaction{}, err
		}
	}
	return model.Transaction{
		ID:          row.ID,
		Date:        row.Date,
		Amount:      amount,
		Category:    row.Category,
		Description: desc,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// CategoryTotals sums spending per category over the optional date range.
// Categories without transactions in the period are absent from the result.
func (s *LedgerService) CategoryTotals(ctx context.Context, userID uuid.UUID, from, to *time.Time) (map[model.Category]float64, error) {
	txs, err := s.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	totals := make(map[model.Category]float64)
	for _, t := range txs {
		totals[t.Category] += t.Amount
	}
	return totals, nil
}
