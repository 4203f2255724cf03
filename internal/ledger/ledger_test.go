package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

func newTestLedger(t *testing.T) (*Ledger, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, nil), s
}

func TestBalance_UnknownMemberIsZero(t *testing.T) {
	l, _ := newTestLedger(t)

	bal, err := l.Balance(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)
}

func TestDeposit_IncreasesBalanceAndAppendsTransaction(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "m1", 100, "weekly payout", "treasurer", ""))

	bal, err := l.Balance(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal)

	hist, err := l.History(ctx, "m1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, store.KindDeposit, hist[0].Kind)
	assert.Equal(t, int64(100), hist[0].Amount)
	assert.Equal(t, "by treasurer: weekly payout", hist[0].Note)
}

func TestDeposit_ZeroAmountIsAllowed(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "m1", 0, "noop", "treasurer", ""))

	hist, err := l.History(ctx, "m1", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestWithdraw_GoesPastZeroWithoutError(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "m1", 100, "seed", "treasurer", ""))
	require.NoError(t, l.Withdraw(ctx, "m1", 150, "penalty", "treasurer", ""))

	bal, err := l.Balance(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(-50), bal)

	hist, err := l.History(ctx, "m1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	// Newest first.
	assert.Equal(t, store.KindWithdraw, hist[0].Kind)
	assert.Equal(t, int64(-150), hist[0].Amount, "withdraw amounts are stored negated")
	assert.Equal(t, store.KindDeposit, hist[1].Kind)
	assert.Equal(t, int64(100), hist[1].Amount)
}

func TestNegativeAmount_FailsAndWritesNothing(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"deposit":  func() error { return l.Deposit(ctx, "m1", -5, "n", "a", "") },
		"withdraw": func() error { return l.Withdraw(ctx, "m1", -5, "n", "a", "") },
		"transfer": func() error { return l.Transfer(ctx, "m1", "m2", -5, "n") },
	} {
		err := call()
		require.Error(t, err, name)
		assert.True(t, IsInvalidAmount(err), "%s should return INVALID_AMOUNT", name)
	}

	bal, err := l.Balance(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)

	hist, err := l.History(ctx, "m1", 0)
	require.NoError(t, err)
	assert.Empty(t, hist, "failed mutations must not append transactions")
}

func TestTransfer_EquivalentToWithdrawPlusDeposit(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "alice", 300, "seed", "treasurer", ""))
	require.NoError(t, l.Transfer(ctx, "alice", "bob", 120, "loan"))

	aliceBal, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(180), aliceBal)

	bobBal, err := l.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(120), bobBal)

	aliceHist, err := l.History(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, aliceHist, 2)
	assert.Equal(t, store.KindWithdraw, aliceHist[0].Kind)
	assert.Equal(t, "by alice: Transfer to bob. loan", aliceHist[0].Note)

	bobHist, err := l.History(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, bobHist, 1)
	assert.Equal(t, store.KindDeposit, bobHist[0].Kind)
	assert.Equal(t, "by alice: Transfer from alice. loan", bobHist[0].Note)
}

func TestTransfer_NoSufficiencyCheck(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// No funds at all: the withdraw side simply goes negative.
	require.NoError(t, l.Transfer(ctx, "alice", "bob", 50, "iou"))

	aliceBal, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(-50), aliceBal)

	bobBal, err := l.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(50), bobBal)
}

func TestTransfer_SecondStepFailureLeavesWithdrawApplied(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "alice", 300, "seed", "treasurer", ""))

	// Run the deposit under an already-cancelled context: the withdraw
	// has committed, the deposit cannot run, and nothing compensates.
	require.NoError(t, l.Withdraw(ctx, "alice", 120, "Transfer to bob. stranded", "alice", ""))
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := l.Deposit(cancelled, "bob", 120, "Transfer from alice. stranded", "alice", "")
	require.Error(t, err)

	aliceBal, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(180), aliceBal, "withdraw side stays applied")

	bobBal, err := l.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bobBal, "deposit side never happened")

	// The store is still usable afterwards.
	require.NoError(t, s.UpsertBalance(ctx, "bob", 0, ""))
}

func TestDeposit_UpdatesNickname(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "m1", 10, "seed", "treasurer", "Olaf"))
	require.NoError(t, l.Withdraw(ctx, "m1", 5, "fee", "treasurer", ""))

	top, err := s.TopBalances(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Olaf", top[0].Nickname, "empty nickname must not clobber the stored one")
}

func TestHistory_DefaultLimitIsTen(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, l.Deposit(ctx, "m1", int64(i), "tick", "cron", ""))
	}

	hist, err := l.History(ctx, "m1", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 10)
	assert.Equal(t, int64(14), hist[0].Amount, "newest first")
}
