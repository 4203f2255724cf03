package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// fakeWriter records worksheet writes.
type fakeWriter struct {
	sheets map[string][][]any
	err    error
}

func (f *fakeWriter) WriteSheet(_ context.Context, sheet string, values [][]any) error {
	if f.err != nil {
		return f.err
	}
	if f.sheets == nil {
		f.sheets = map[string][][]any{}
	}
	f.sheets[sheet] = values
	return nil
}

func TestExport_AllSheets(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.UpsertBalance(ctx, "m1", 250, "Olaf"))
	_, err = s.AppendTransaction(ctx, store.KindDeposit, "m1", 250, "by treasurer: seed")
	require.NoError(t, err)
	_, err = s.InsertFine(ctx, "m1", 100, "late")
	require.NoError(t, err)

	w := &fakeWriter{}
	require.NoError(t, New(s, w, nil).Export(ctx))

	require.Len(t, w.sheets, len(tables), "every relation gets a worksheet")

	balances := w.sheets["Balances"]
	require.Len(t, balances, 2)
	assert.Equal(t, []any{"member_id", "balance", "nickname"}, balances[0])
	assert.Equal(t, []any{"m1", "250", "Olaf"}, balances[1])

	fines := w.sheets["Fines"]
	require.Len(t, fines, 2)
	assert.Equal(t, "late", fines[1][3])
	assert.Equal(t, "0", fines[1][4], "open fines export is_closed = 0")
}

func TestExport_EmptyTablesStillWriteHeaders(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	w := &fakeWriter{}
	require.NoError(t, New(s, w, nil).Export(context.Background()))

	for _, tbl := range tables {
		values, ok := w.sheets[tbl.sheet]
		require.True(t, ok, "sheet %s missing", tbl.sheet)
		require.Len(t, values, 1, "empty table exports only the header row")
	}
}

func TestExport_WriterFailureAborts(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	w := &fakeWriter{err: assert.AnError}
	err = New(s, w, nil).Export(context.Background())
	require.Error(t, err)
}
