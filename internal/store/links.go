package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LinkRow binds a member's primary identity to a secondary-platform identity.
type LinkRow struct {
	MemberID   string
	LinkedID   string
	LinkedName string
	CreatedAt  time.Time
}

// LinkCodeRow is a pending single-use linking code.
type LinkCodeRow struct {
	Code      string
	MemberID  string
	CreatedAt time.Time
}

// UpsertLink writes the link row for a member. A repeat verification
// overwrites the previous binding for that member.
func (s *Store) UpsertLink(ctx context.Context, memberID, linkedID, linkedName string, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (member_id, linked_id, linked_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			linked_id   = excluded.linked_id,
			linked_name = excluded.linked_name,
			created_at  = excluded.created_at
	`, memberID, linkedID, linkedName, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert link: %w", err)
	}
	return nil
}

// LinkByMember returns a member's link row, or (nil, nil) when the member
// has no linked secondary identity.
func (s *Store) LinkByMember(ctx context.Context, memberID string) (*LinkRow, error) {
	var r LinkRow
	err := s.db.QueryRowContext(ctx, `
		SELECT member_id, linked_id, COALESCE(linked_name, ''), created_at
		FROM links WHERE member_id = ?
	`, memberID).Scan(&r.MemberID, &r.LinkedID, &r.LinkedName, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read link: %w", err)
	}
	return &r, nil
}

// ReplaceLinkCode installs a fresh code for a member, dropping any code the
// member already had. Two statements, not one transaction: losing the old
// code and gaining the new one are both idempotent from the caller's view,
// and the unique index on member_id makes the insert fail loudly if the
// delete was lost.
func (s *Store) ReplaceLinkCode(ctx context.Context, code, memberID string, createdAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM link_codes WHERE member_id = ?
	`, memberID); err != nil {
		return fmt.Errorf("replace link code: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO link_codes (code, member_id, created_at)
		VALUES (?, ?, ?)
	`, code, memberID, createdAt.UTC()); err != nil {
		return fmt.Errorf("replace link code: %w", err)
	}
	return nil
}

// LinkCodeByValue looks up a code, returning (nil, nil) on a miss.
// Expiry is the link engine's concern, not the store's.
func (s *Store) LinkCodeByValue(ctx context.Context, code string) (*LinkCodeRow, error) {
	var r LinkCodeRow
	err := s.db.QueryRowContext(ctx, `
		SELECT code, member_id, created_at FROM link_codes WHERE code = ?
	`, code).Scan(&r.Code, &r.MemberID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read link code: %w", err)
	}
	return &r, nil
}

// DeleteLinkCode consumes a code. Deleting an already-consumed code is a
// no-op.
func (s *Store) DeleteLinkCode(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM link_codes WHERE code = ?
	`, code); err != nil {
		return fmt.Errorf("delete link code: %w", err)
	}
	return nil
}
