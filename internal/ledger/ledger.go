// Package ledger implements the point-balance ledger: deposits,
// withdrawals, transfers, the top list and the per-member transaction
// history.
//
// Under pure ledger operation a member's balance equals the sum of that
// member's transaction amounts. The fine engine deliberately breaks this
// by overwriting balances during reconciliation; the ledger neither
// knows nor cares, and the divergence is preserved on purpose. See the
// fines package.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// Defaults carried over from the bot commands: the top list shows 40 rows,
// history shows the last 10 transactions.
const (
	DefaultTopN         = 40
	DefaultHistoryLimit = 10
)

// Ledger executes balance mutations against the store.
//
// Every mutation is a short read-modify-write sequence with no optimistic
// concurrency token. Two overlapping calls against the same member can race
// into a lost update; the hosting command dispatcher is expected to
// serialize calls, so this is accepted rather than prevented.
type Ledger struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a Ledger over the given store.
// A nil logger falls back to slog.Default().
func New(s *store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: s, log: logger}
}

// Balance returns a member's current balance. Members with no ledger row
// have a balance of 0.
func (l *Ledger) Balance(ctx context.Context, memberID string) (int64, error) {
	return l.store.Balance(ctx, memberID)
}

// Deposit adds amount to a member's balance and appends a DEPOSIT
// transaction noted "by {actor}: {note}".
//
// Returns an INVALID_AMOUNT error for negative amounts, writing nothing.
// A non-empty nickname updates the stored display name.
func (l *Ledger) Deposit(ctx context.Context, memberID string, amount int64, note, actor, nickname string) error {
	if amount < 0 {
		return NewInvalidAmountError(memberID, amount)
	}

	balance, err := l.store.Balance(ctx, memberID)
	if err != nil {
		return err
	}
	if err := l.store.UpsertBalance(ctx, memberID, balance+amount, normalizeName(nickname)); err != nil {
		return err
	}
	if _, err := l.store.AppendTransaction(ctx, store.KindDeposit, memberID, amount, stampNote(actor, note)); err != nil {
		return err
	}

	l.log.Debug("deposit", "member", memberID, "amount", amount, "actor", actor)
	return nil
}

// Withdraw subtracts amount from a member's balance and appends a WITHDRAW
// transaction with the amount stored negated.
//
// There is no insufficient-funds check: balances go negative to carry
// punitive debt. Returns an INVALID_AMOUNT error for negative amounts.
func (l *Ledger) Withdraw(ctx context.Context, memberID string, amount int64, note, actor, nickname string) error {
	if amount < 0 {
		return NewInvalidAmountError(memberID, amount)
	}

	balance, err := l.store.Balance(ctx, memberID)
	if err != nil {
		return err
	}
	if err := l.store.UpsertBalance(ctx, memberID, balance-amount, normalizeName(nickname)); err != nil {
		return err
	}
	if _, err := l.store.AppendTransaction(ctx, store.KindWithdraw, memberID, -amount, stampNote(actor, note)); err != nil {
		return err
	}

	l.log.Debug("withdraw", "member", memberID, "amount", amount, "actor", actor)
	return nil
}

// Transfer moves amount from one member to another as a withdraw followed
// by a deposit. The two steps are independent mutations: there is no
// sufficiency check, no wrapping transaction and no compensation. If the
// deposit fails after the withdraw succeeded, the ledger is left with the
// withdraw applied and the error says so.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount int64, note string) error {
	if amount < 0 {
		return NewInvalidAmountError(fromID, amount)
	}

	if err := l.Withdraw(ctx, fromID, amount, fmt.Sprintf("Transfer to %s. %s", toID, note), fromID, ""); err != nil {
		return fmt.Errorf("transfer withdraw step: %w", err)
	}
	if err := l.Deposit(ctx, toID, amount, fmt.Sprintf("Transfer from %s. %s", fromID, note), fromID, ""); err != nil {
		l.log.Error("transfer deposit step failed after withdraw was applied",
			"from", fromID, "to", toID, "amount", amount)
		return fmt.Errorf("transfer deposit step (withdraw already applied): %w", err)
	}
	return nil
}

// TopBalances returns up to n members ordered by balance descending.
// n <= 0 selects the bot's default of 40 rows.
func (l *Ledger) TopBalances(ctx context.Context, n int) ([]store.BalanceRow, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	return l.store.TopBalances(ctx, n)
}

// History returns a member's most recent transactions, newest first.
// limit <= 0 selects the default of 10 rows.
func (l *Ledger) History(ctx context.Context, memberID string, limit int) ([]store.TransactionRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return l.store.History(ctx, memberID, limit)
}

// stampNote prefixes a note with the acting identity, matching the log
// format the transaction history has always used.
func stampNote(actor, note string) string {
	return fmt.Sprintf("by %s: %s", actor, note)
}

// normalizeName NFC-normalizes a display name so that visually identical
// names compare equal regardless of which platform composed them.
func normalizeName(name string) string {
	if name == "" {
		return ""
	}
	return norm.NFC.String(name)
}
