package store

import (
	"context"
	"fmt"
	"time"
)

// Transaction kinds as stored in the transactions.type column.
const (
	KindDeposit  = "DEPOSIT"
	KindWithdraw = "WITHDRAW"
)

// TransactionRow is one row of the append-only transaction log.
type TransactionRow struct {
	ID        int64
	Kind      string
	MemberID  string
	Amount    int64
	Note      string
	Timestamp time.Time
}

// AppendTransaction inserts one immutable row into the transaction log and
// returns its id. Rows are never updated or deleted afterwards.
//
// The amount is stored exactly as given; the ledger negates withdraw
// amounts before calling this.
func (s *Store) AppendTransaction(ctx context.Context, kind, memberID string, amount int64, note string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (type, member_id, amount, note)
		VALUES (?, ?, ?, ?)
	`, kind, memberID, amount, note)
	if err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}
	return id, nil
}

// History returns the most recent limit transactions for a member,
// newest first. Rows written in the same timestamp second keep insertion
// order (id breaks the tie).
func (s *Store) History(ctx context.Context, memberID string, limit int) ([]TransactionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, member_id, amount, COALESCE(note, ''), timestamp
		FROM transactions
		WHERE member_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var r TransactionRow
		if err := rows.Scan(&r.ID, &r.Kind, &r.MemberID, &r.Amount, &r.Note, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return out, nil
}
