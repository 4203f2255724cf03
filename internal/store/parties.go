package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PartyRow is one row of the parties relation plus its member count.
type PartyRow struct {
	PartyID     int64
	CreatorID   string
	Info        string
	CreatedAt   time.Time
	MemberCount int
}

// CreateParty inserts a party and enrolls its creator as the first member.
func (s *Store) CreateParty(ctx context.Context, creatorID, info string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO parties (creator_id, info) VALUES (?, ?)
	`, creatorID, info)
	if err != nil {
		return 0, fmt.Errorf("create party: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create party: %w", err)
	}
	if err := s.AddPartyMember(ctx, id, creatorID); err != nil {
		return 0, err
	}
	return id, nil
}

// PartyByID returns a party row or (nil, nil) when no such party exists.
func (s *Store) PartyByID(ctx context.Context, partyID int64) (*PartyRow, error) {
	var r PartyRow
	err := s.db.QueryRowContext(ctx, `
		SELECT party_id, creator_id, COALESCE(info, ''), created_at,
		       (SELECT COUNT(*) FROM party_members pm WHERE pm.party_id = parties.party_id)
		FROM parties WHERE party_id = ?
	`, partyID).Scan(&r.PartyID, &r.CreatorID, &r.Info, &r.CreatedAt, &r.MemberCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read party: %w", err)
	}
	return &r, nil
}

// DeleteParty removes a party and its roster.
func (s *Store) DeleteParty(ctx context.Context, partyID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM parties WHERE party_id = ?
	`, partyID); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM party_members WHERE party_id = ?
	`, partyID); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

// AddPartyMember enrolls a member; joining twice is a no-op.
func (s *Store) AddPartyMember(ctx context.Context, partyID int64, memberID string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO party_members (party_id, member_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, partyID, memberID); err != nil {
		return fmt.Errorf("add party member: %w", err)
	}
	return nil
}

// RemovePartyMember drops a member from a roster.
func (s *Store) RemovePartyMember(ctx context.Context, partyID int64, memberID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM party_members WHERE party_id = ? AND member_id = ?
	`, partyID, memberID); err != nil {
		return fmt.Errorf("remove party member: %w", err)
	}
	return nil
}

// PartyMembers returns the roster for a party.
func (s *Store) PartyMembers(ctx context.Context, partyID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id FROM party_members WHERE party_id = ? ORDER BY member_id
	`, partyID)
	if err != nil {
		return nil, fmt.Errorf("party members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("party members: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("party members: %w", err)
	}
	return out, nil
}

// Parties returns all parties with member counts, oldest first.
func (s *Store) Parties(ctx context.Context) ([]PartyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT party_id, creator_id, COALESCE(info, ''), created_at,
		       (SELECT COUNT(*) FROM party_members pm WHERE pm.party_id = parties.party_id)
		FROM parties ORDER BY party_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var out []PartyRow
	for rows.Next() {
		var r PartyRow
		if err := rows.Scan(&r.PartyID, &r.CreatorID, &r.Info, &r.CreatedAt, &r.MemberCount); err != nil {
			return nil, fmt.Errorf("list parties: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return out, nil
}
