package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/akarpov87/budget-keeper/internal/crypto"
	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/repository"
	"github.com/akarpov87/budget-keeper/internal/storage"
)

const backupDateLayout = "2006-01-02"

// snapshot is the serialized form of one user's full ledger. The whole JSON
// payload is encrypted as a single unit on top of the per-field encryption
// the rows get on restore; the redundancy is deliberate.
type snapshot struct {
	Salary       float64      `json:"salary"`
	Transactions []snapshotTx `json:"transactions"`
}

type snapshotTx struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// BackupService exports and restores whole-ledger encrypted snapshots.
type BackupService struct {
	ledger *LedgerService
	repo   repository.LedgerRepository
	cipher *pkgcrypto.Cipher
	blobs  storage.BlobStore
	now    func() time.Time
}

// NewBackupService constructs a BackupService.
func NewBackupService(ledger *LedgerService, repo repository.LedgerRepository, cipher *pkgcrypto.Cipher, blobs storage.BlobStore) *BackupService {
	return &BackupService{ledger: ledger, repo: repo, cipher: cipher, blobs: blobs, now: time.Now}
}

// backupPrefix scopes blob names to their owning user.
func backupPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("budget_%s_", userID)
}

// Export snapshots the user's salary and transactions, encrypts the JSON
// payload as one blob and stores it under a name encoding owner and
// timestamp. Returns the blob name.
func (s *BackupService) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", errs.ErrUnauthenticated
	}

	salary, err := s.ledger.GetSalary(ctx, userID)
	if err != nil {
		return "", err
	}
	txs, err := s.ledger.ListTransactions(ctx, userID, nil, nil)
	if err != nil {
		return "", err
	}

	snap := snapshot{Salary: salary, Transactions: make([]snapshotTx, 0, len(txs))}
	for _, t := range txs {
		snap.Transactions = append(snap.Transactions, snapshotTx{
			Date:        t.Date.Format(backupDateLayout),
			Amount:      t.Amount,
			Category:    string(t.Category),
			Description: t.Description,
		})
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	blob, err := s.cipher.Encrypt(payload)
	if err != nil {
		return "", err
	}

	name := backupPrefix(userID) + s.now().UTC().Format("20060102_150405") + ".bak"
	if err := s.blobs.Put(ctx, name, blob); err != nil {
		return "", fmt.Errorf("store backup: %w", err)
	}
	return name, nil
}

// Import decrypts and parses the named backup, then destructively replaces
// the user's entire ledger in a single transaction: a failure at any point
// leaves the existing data untouched. Backups belonging to other users are
// not visible.
func (s *BackupService) Import(ctx context.Context, userID uuid.UUID, name string) error {
	if userID == uuid.Nil {
		return errs.ErrUnauthenticated
	}
	if !strings.HasPrefix(name, backupPrefix(userID)) {
		return errs.ErrNotFound
	}

	blob, err := s.blobs.Get(ctx, name)
	if err != nil {
		return err
	}
	payload, err := s.cipher.Decrypt(blob)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	var salaryRow *model.SalaryRow
	if snap.Salary != 0 {
		enc, err := s.cipher.EncryptString(encodeAmount(snap.Salary))
		if err != nil {
			return err
		}
		salaryRow = &model.SalaryRow{UserID: userID, AmountEnc: enc, UpdatedAt: s.now()}
	}

	rows := make([]model.TransactionRow, 0, len(snap.Transactions))
	for i, tx := range snap.Transactions {
		date, err := time.Parse(backupDateLayout, tx.Date)
		if err != nil {
			return fmt.Errorf("parse backup: transaction[%d] date %q: %w", i, tx.Date, err)
		}
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		amountEnc, err := s.cipher.EncryptString(encodeAmount(tx.Amount))
		if err != nil {
			return err
		}
		var descEnc []byte
		if tx.Description != "" {
			if descEnc, err = s.cipher.EncryptString(tx.Description); err != nil {
				return err
			}
		}
		rows = append(rows, model.TransactionRow{
			ID:             id,
			UserID:         userID,
			Date:           date,
			AmountEnc:      amountEnc,
			Category:       model.Category(tx.Category),
			DescriptionEnc: descEnc,
		})
	}

	return s.repo.RestoreAll(ctx, userID, salaryRow, rows)
}

// ListBackups returns the user's backups, newest first.
func (s *BackupService) ListBackups(ctx context.Context, userID uuid.UUID) ([]model.BackupInfo, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	objs, err := s.blobs.List(ctx, backupPrefix(userID))
	if err != nil {
		return nil, err
	}
	out := make([]model.BackupInfo, 0, len(objs))
	for _, o := range objs {
		out = append(out, model.BackupInfo{Name: o.Name, CreatedAt: o.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
