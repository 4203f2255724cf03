// Package fines issues and closes punitive fines and reconciles member
// balances against them.
//
// Reconciliation is a full overwrite: after any fine activity a member's
// balance is set to the negative sum of that member's still-open fines,
// superseding whatever the ledger recorded. Balance and transaction log
// therefore diverge once fines are involved. That tension is inherited
// from the bot's original behavior and is preserved here deliberately;
// do not "repair" it without a product decision.
package fines

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GrigorijsPerec/hell-bot/internal/ledger"
	"github.com/GrigorijsPerec/hell-bot/internal/notify"
	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// Notifier delivers fine alerts. Implemented by notify.Router; tests use
// a recording fake. A nil Notifier disables alerts.
type Notifier interface {
	Notify(ctx context.Context, memberID string, payload notify.Payload) error
}

// Engine opens and closes fines and keeps balances reconciled.
//
// Who may issue or close fines is the caller's concern: the command layer
// hands this engine pre-authorized actor and subject identities.
type Engine struct {
	store    *store.Store
	notifier Notifier
	log      *slog.Logger
}

// New creates an Engine over the given store.
// notifier may be nil; a nil logger falls back to slog.Default().
func New(s *store.Store, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, notifier: notifier, log: logger}
}

// Issue creates an open fine against a member, reconciles the member's
// balance and sends a fine alert. Returns the new fine's id.
//
// Fine amounts are strictly positive; zero and negative amounts return an
// INVALID_AMOUNT error and write nothing. Alert delivery failures are
// logged and never fail the issuance.
func (e *Engine) Issue(ctx context.Context, subjectID string, amount int64, reason, actor string) (int64, error) {
	if amount <= 0 {
		return 0, ledger.NewInvalidAmountError(subjectID, amount)
	}

	id, err := e.store.InsertFine(ctx, subjectID, amount, reason)
	if err != nil {
		return 0, err
	}
	if err := e.Reconcile(ctx, subjectID); err != nil {
		return 0, fmt.Errorf("reconcile after issue (fine %d is recorded): %w", id, err)
	}

	e.log.Info("fine issued", "fine", id, "subject", subjectID, "amount", amount, "actor", actor)
	e.sendAlert(ctx, subjectID, id, amount, reason, actor)
	return id, nil
}

// Close marks a fine closed and reconciles the subject's balance.
//
// Returns FINE_NOT_FOUND for an unknown id and FINE_ALREADY_CLOSED for a
// repeat close; neither failure mutates state.
func (e *Engine) Close(ctx context.Context, fineID int64) error {
	fine, err := e.store.FineByID(ctx, fineID)
	if err != nil {
		return err
	}
	if fine == nil {
		return NewNotFoundError(fineID)
	}
	if fine.IsClosed {
		return NewAlreadyClosedError(fineID)
	}

	if err := e.store.MarkFineClosed(ctx, fineID); err != nil {
		return err
	}
	if err := e.Reconcile(ctx, fine.MemberID); err != nil {
		return fmt.Errorf("reconcile after close (fine %d is closed): %w", fineID, err)
	}

	e.log.Info("fine closed", "fine", fineID, "subject", fine.MemberID)
	return nil
}

// Reconcile forces a member's balance to the negative sum of that member's
// open fines. This is an overwrite, not a delta, and it appends no
// transaction row: prior ledger history stands as written while the
// balance column now reflects outstanding debt only.
func (e *Engine) Reconcile(ctx context.Context, subjectID string) error {
	total, err := e.store.SumOpenFines(ctx, subjectID)
	if err != nil {
		return err
	}
	return e.store.UpsertBalance(ctx, subjectID, -total, "")
}

func (e *Engine) sendAlert(ctx context.Context, subjectID string, fineID, amount int64, reason, actor string) {
	if e.notifier == nil {
		return
	}
	payload := notify.Payload{
		Title: "New fine",
		Fields: []notify.Field{
			{Name: "Member", Value: subjectID},
			{Name: "Amount", Value: fmt.Sprintf("%d", amount)},
			{Name: "Reason", Value: reason},
			{Name: "Issued by", Value: actor},
			{Name: "Fine ID", Value: fmt.Sprintf("%d", fineID)},
		},
	}
	if err := e.notifier.Notify(ctx, subjectID, payload); err != nil {
		e.log.Error("fine alert failed", "fine", fineID, "subject", subjectID, "error", err)
	}
}
