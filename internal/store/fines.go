package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FineRow is one row of the fines relation.
type FineRow struct {
	ID        int64
	MemberID  string
	Amount    int64
	Reason    string
	IsClosed  bool
	Timestamp time.Time
}

// InsertFine creates an open fine and returns its id.
func (s *Store) InsertFine(ctx context.Context, memberID string, amount int64, reason string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO fines (member_id, amount, reason)
		VALUES (?, ?, ?)
	`, memberID, amount, reason)
	if err != nil {
		return 0, fmt.Errorf("insert fine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert fine: %w", err)
	}
	return id, nil
}

// FineByID returns the fine with the given id, or (nil, nil) when no such
// fine exists. Classifying the miss is the fine engine's job.
func (s *Store) FineByID(ctx context.Context, id int64) (*FineRow, error) {
	var r FineRow
	var closed int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, amount, COALESCE(reason, ''), is_closed, timestamp
		FROM fines WHERE id = ?
	`, id).Scan(&r.ID, &r.MemberID, &r.Amount, &r.Reason, &closed, &r.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fine: %w", err)
	}
	r.IsClosed = closed != 0
	return &r, nil
}

// MarkFineClosed sets is_closed on an open fine. The OPEN -> CLOSED
// transition is one-way; the WHERE clause makes the statement a no-op for
// fines that are already closed.
func (s *Store) MarkFineClosed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE fines SET is_closed = 1 WHERE id = ? AND is_closed = 0
	`, id)
	if err != nil {
		return fmt.Errorf("close fine: %w", err)
	}
	return nil
}

// SumOpenFines returns the total amount over a member's open fines.
func (s *Store) SumOpenFines(ctx context.Context, memberID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM fines
		WHERE member_id = ? AND is_closed = 0
	`, memberID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum open fines: %w", err)
	}
	return total, nil
}
