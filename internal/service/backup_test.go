package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/storage"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

type fakeBlobs struct {
	objects map[string][]byte
	stamps  map[string]time.Time
	clock   time.Time
}

var _ storage.BlobStore = (*fakeBlobs)(nil)

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{
		objects: map[string][]byte{},
		stamps:  map[string]time.Time{},
		clock:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeBlobs) Put(_ context.Context, name string, data []byte) error {
	f.objects[name] = append([]byte(nil), data...)
	f.clock = f.clock.Add(time.Second)
	f.stamps[name] = f.clock
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobs) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for name := range f.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, storage.ObjectInfo{Name: name, CreatedAt: f.stamps[name]})
		}
	}
	return out, nil
}

func newBackup(t *testing.T) (*BackupService, *LedgerService, *fakeLedger, *fakeBlobs) {
	t.Helper()
	repo := newFakeLedger()
	cipher := testCipher(t)
	ledger := NewLedgerService(repo, cipher)
	blobs := newFakeBlobs()
	return NewBackupService(ledger, repo, cipher, blobs), ledger, repo, blobs
}

type txKey struct {
	date        string
	amount      float64
	category    model.Category
	description string
}

func txMultiset(txs []model.Transaction) []txKey {
	out := make([]txKey, 0, len(txs))
	for _, t := range txs {
		out = append(out, txKey{
			date:        t.Date.Format("2006-01-02"),
			amount:      t.Amount,
			category:    t.Category,
			description: t.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].date != out[j].date {
			return out[i].date < out[j].date
		}
		return out[i].amount < out[j].amount
	})
	return out
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	backup, ledger, _, _ := newBackup(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	require.NoError(t, ledger.SetSalary(ctx, userID, 3456.78))
	require.NoError(t, ledger.AddTransaction(ctx, userID, date(2026, 8, 1), 50, model.CategoryNeeds, "rent"))
	require.NoError(t, ledger.AddTransaction(ctx, userID, date(2026, 8, 2), 20.5, model.CategoryWants, ""))
	require.NoError(t, ledger.AddTransaction(ctx, userID, date(2026, 8, 2), 20.5, model.CategoryWants, "")) // duplicate on purpose

	before, err := ledger.ListTransactions(ctx, userID, nil, nil)
	require.NoError(t, err)

	name, err := backup.Export(ctx, userID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(name, "budget_"+userID.String()+"_"))

	// Scribble over the live ledger, then restore.
	require.NoError(t, ledger.SetSalary(ctx, userID, 1))
	require.NoError(t, ledger.AddTransaction(ctx, userID, date(2026, 8, 20), 999, model.CategorySavings, "noise"))

	require.NoError(t, backup.Import(ctx, userID, name))

	salary, err := ledger.GetSalary(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3456.78, salary)

	after, err := ledger.ListTransactions(ctx, userID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, txMultiset(before), txMultiset(after))
}

func TestBackup_BlobIsEncryptedWhole(t *testing.T) {
	t.Parallel()
	backup, ledger, _, blobs := newBackup(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	require.NoError(t, ledger.SetSalary(ctx, userID, 5000))
	require.NoError(t, ledger.AddTransaction(ctx, userID, date(2026, 8, 1), 50, model.CategoryNeeds, "rent"))

	name, err := backup.Export(ctx, userID)
	require.NoError(t, err)

	blob := blobs.objects[name]
	require.NotContains(t, string(blob), "salary")
	require.NotContains(t, string(blob), "rent")
}

func TestBackup_ImportBadBlobLeavesDataUntouched(t *testing.T) {
	t.Parallel()
	backup, ledger, _, blobs := newBackup(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	require.NoError(t, ledger.SetSalary(ctx, userID, 5000))
	name := "budget_" + userID.String() + "_20260830_120000.bak"
	blobs.objects[name] = []byte("garbage, not a ciphertext")

	require.ErrorIs(t, backup.Import(ctx, userID, name), errs.ErrDecrypt)

	salary, err := ledger.GetSalary(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 5000.0, salary)
}

func TestBackup_ImportMissingOrForeign(t *testing.T) {
	t.Parallel()
	backup, ledger, _, _ := newBackup(t)
	ctx := context.Background()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	require.NoError(t, ledger.SetSalary(ctx, alice, 5000))
	name, err := backup.Export(ctx, alice)
	require.NoError(t, err)

	// Bob cannot restore Alice's backup.
	require.ErrorIs(t, backup.Import(ctx, bob, name), errs.ErrNotFound)

	// Unknown name for the right user.
	require.ErrorIs(t, backup.Import(ctx, alice, "budget_"+alice.String()+"_19990101_000000.bak"), errs.ErrNotFound)
}

func TestBackup_ListNewestFirstOwnOnly(t *testing.T) {
	t.Parallel()
	backup, ledger, _, _ := newBackup(t)
	ctx := context.Background()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	require.NoError(t, ledger.SetSalary(ctx, alice, 1000))
	require.NoError(t, ledger.SetSalary(ctx, bob, 2000))

	backup.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	first, err := backup.Export(ctx, alice)
	require.NoError(t, err)
	backup.now = func() time.Time { return time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC) }
	second, err := backup.Export(ctx, alice)
	require.NoError(t, err)
	_, err = backup.Export(ctx, bob)
	require.NoError(t, err)

	list, err := backup.ListBackups(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second, list[0].Name)
	require.Equal(t, first, list[1].Name)
}

func TestBackup_RequiresBoundUser(t *testing.T) {
	t.Parallel()
	backup, _, _, _ := newBackup(t)
	ctx := context.Background()

	_, err := backup.Export(ctx, uuid.Nil)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.ErrorIs(t, backup.Import(ctx, uuid.Nil, "x"), errs.ErrUnauthenticated)
	_, err = backup.ListBackups(ctx, uuid.Nil)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}
