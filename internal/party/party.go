// Package party manages event rosters: plain CRUD plus a roster-wide
// notification fan-out through the notification router.
package party

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GrigorijsPerec/hell-bot/internal/notify"
	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// ErrNotFound reports an unknown party id.
var ErrNotFound = errors.New("party not found")

// Notifier delivers roster notifications. Implemented by notify.Router.
type Notifier interface {
	Notify(ctx context.Context, memberID string, payload notify.Payload) error
}

// Service manages party rosters.
type Service struct {
	store    *store.Store
	notifier Notifier
	log      *slog.Logger
}

// New creates a Service over the given store.
// notifier may be nil; a nil logger falls back to slog.Default().
func New(s *store.Store, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, notifier: notifier, log: logger}
}

// Create opens a party and enrolls its creator. Returns the party id.
func (s *Service) Create(ctx context.Context, creatorID, info string) (int64, error) {
	return s.store.CreateParty(ctx, creatorID, info)
}

// Delete removes a party and its roster. Returns ErrNotFound for an
// unknown id.
func (s *Service) Delete(ctx context.Context, partyID int64) error {
	row, err := s.store.PartyByID(ctx, partyID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("party %d: %w", partyID, ErrNotFound)
	}
	return s.store.DeleteParty(ctx, partyID)
}

// Join enrolls a member; joining twice is a no-op.
func (s *Service) Join(ctx context.Context, partyID int64, memberID string) error {
	row, err := s.store.PartyByID(ctx, partyID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("party %d: %w", partyID, ErrNotFound)
	}
	return s.store.AddPartyMember(ctx, partyID, memberID)
}

// Leave drops a member from the roster.
func (s *Service) Leave(ctx context.Context, partyID int64, memberID string) error {
	row, err := s.store.PartyByID(ctx, partyID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("party %d: %w", partyID, ErrNotFound)
	}
	return s.store.RemovePartyMember(ctx, partyID, memberID)
}

// List returns all parties with member counts, oldest first.
func (s *Service) List(ctx context.Context) ([]store.PartyRow, error) {
	return s.store.Parties(ctx)
}

// NotifyMembers sends text to every roster member except exceptMember
// (normally the sender). Per-recipient delivery failures are already
// swallowed by the router; a store failure aborts the fan-out.
func (s *Service) NotifyMembers(ctx context.Context, partyID int64, text, exceptMember string) error {
	if s.notifier == nil {
		return nil
	}
	members, err := s.store.PartyMembers(ctx, partyID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("party %d: %w", partyID, ErrNotFound)
	}

	payload := notify.Payload{Text: fmt.Sprintf("Party %d: %s", partyID, text)}
	for _, member := range members {
		if member == exceptMember {
			continue
		}
		if err := s.notifier.Notify(ctx, member, payload); err != nil {
			s.log.Error("party notification failed", "party", partyID, "member", member, "error", err)
		}
	}
	return nil
}
