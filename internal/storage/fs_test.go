package storage

import (
	"context"
	"testing"

	"github.com/akarpov87/budget-keeper/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGetList(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "budget_u1_20260830_120000.bak", []byte("one")))
	require.NoError(t, s.Put(ctx, "budget_u1_20260830_130000.bak", []byte("two")))
	require.NoError(t, s.Put(ctx, "budget_u2_20260830_120000.bak", []byte("other user")))

	data, err := s.Get(ctx, "budget_u1_20260830_120000.bak")
	require.NoError(t, err)
	require.Equal(t, []byte("one"), data)

	objs, err := s.List(ctx, "budget_u1_")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	for _, o := range objs {
		require.NotContains(t, o.Name, "u2")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "nope.bak")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, s.Put(ctx, "../escape", []byte("x")))
	_, err = s.Get(ctx, "../../etc/passwd")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
