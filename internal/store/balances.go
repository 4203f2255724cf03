package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// BalanceRow is one row of the balances relation.
type BalanceRow struct {
	MemberID string
	Balance  int64
	Nickname string
}

// Balance returns the current balance for a member.
// A member with no row has a balance of 0.
func (s *Store) Balance(ctx context.Context, memberID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM balances WHERE member_id = ?
	`, memberID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

// UpsertBalance writes an absolute balance value for a member, creating the
// row if needed. A non-empty nickname replaces the stored one; an empty
// nickname leaves it untouched.
//
// This is a full overwrite of the balance column. The ledger computes the
// new value itself (read-modify-write) and the fine engine uses it to force
// the balance to the negative sum of open fines.
func (s *Store) UpsertBalance(ctx context.Context, memberID string, balance int64, nickname string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (member_id, balance, nickname)
		VALUES (?, ?, NULLIF(?, ''))
		ON CONFLICT(member_id) DO UPDATE SET
			balance  = excluded.balance,
			nickname = COALESCE(excluded.nickname, balances.nickname)
	`, memberID, balance, nickname)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// TopBalances returns up to n rows ordered by balance descending.
// Ties break on member_id ascending so the order is stable across runs.
func (s *Store) TopBalances(ctx context.Context, n int) ([]BalanceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, balance, COALESCE(nickname, '')
		FROM balances
		ORDER BY balance DESC, member_id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("top balances: %w", err)
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var r BalanceRow
		if err := rows.Scan(&r.MemberID, &r.Balance, &r.Nickname); err != nil {
			return nil, fmt.Errorf("top balances: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top balances: %w", err)
	}
	return out, nil
}
