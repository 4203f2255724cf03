// Package link binds a member's primary chat identity to a secondary
// platform identity through short-lived, single-use linking codes.
//
// Per member the code lifecycle is: no code -> code issued -> consumed
// (linked) or expired. Issuing a new code silently replaces the old one,
// so at most one live code exists per member at any time.
package link

import (
	"context"
	"log/slog"
	"time"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// TTL is the validity window of a linking code, measured from issuance.
const TTL = 5 * time.Minute

// Clock supplies the current time. Injected so tests can walk the code
// window deterministically; production uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Service issues and verifies linking codes and answers link lookups.
// It satisfies notify.LinkLookup.
type Service struct {
	store *store.Store
	codes CodeGenerator
	clock Clock
	log   *slog.Logger
}

// New creates a Service over the given store. A nil generator defaults to
// RandomGenerator, a nil clock to SystemClock, a nil logger to
// slog.Default().
func New(s *store.Store, codes CodeGenerator, clock Clock, logger *slog.Logger) *Service {
	if codes == nil {
		codes = RandomGenerator{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, codes: codes, clock: clock, log: logger}
}

// GenerateCode issues a fresh linking code for a member, invalidating any
// code the member already had. The code is returned for display to the
// member and is never logged.
func (s *Service) GenerateCode(ctx context.Context, memberID string) (string, error) {
	code, err := s.codes.Generate()
	if err != nil {
		return "", err
	}
	if err := s.store.ReplaceLinkCode(ctx, code, memberID, s.clock.Now()); err != nil {
		return "", err
	}
	s.log.Info("link code issued", "member", memberID)
	return code, nil
}

// VerifyCode checks a code presented from the secondary platform. On a
// match within the validity window it consumes the code, records the
// link and returns true.
//
// A missing code and an expired code both return (false, nil): expiry
// is indistinguishable from non-existence.
func (s *Service) VerifyCode(ctx context.Context, code, linkedID, linkedName string) (bool, error) {
	row, err := s.store.LinkCodeByValue(ctx, code)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}
	if s.clock.Now().Sub(row.CreatedAt) > TTL {
		return false, nil
	}

	// Single-use: consume before the binding becomes visible.
	if err := s.store.DeleteLinkCode(ctx, code); err != nil {
		return false, err
	}
	if err := s.store.UpsertLink(ctx, row.MemberID, linkedID, linkedName, s.clock.Now()); err != nil {
		return false, err
	}

	s.log.Info("identity linked", "member", row.MemberID, "linked", linkedID)
	return true, nil
}

// LinkedIdentity returns the secondary identity linked to a member, with
// ok=false when no link exists.
func (s *Service) LinkedIdentity(ctx context.Context, memberID string) (string, bool, error) {
	row, err := s.store.LinkByMember(ctx, memberID)
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	return row.LinkedID, true, nil
}
