// Package export mirrors the bot's relations into a spreadsheet, one
// worksheet per table, for officers who live in their spreadsheet rather
// than in chat commands. The export is wholesale: each run clears a
// worksheet and rewrites it with a header row plus every row of the
// table, stringified.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// SheetWriter writes one worksheet. Implemented by SheetsWriter; tests
// use a recording fake.
type SheetWriter interface {
	WriteSheet(ctx context.Context, sheet string, values [][]any) error
}

// table pairs a worksheet name with the query that fills it.
type table struct {
	sheet   string
	query   string
	headers []string
}

var tables = []table{
	{
		sheet:   "Balances",
		query:   `SELECT member_id, balance, COALESCE(nickname, '') FROM balances ORDER BY member_id`,
		headers: []string{"member_id", "balance", "nickname"},
	},
	{
		sheet:   "Transactions",
		query:   `SELECT id, type, member_id, amount, COALESCE(note, ''), timestamp FROM transactions ORDER BY id`,
		headers: []string{"id", "type", "member_id", "amount", "note", "timestamp"},
	},
	{
		sheet:   "Fines",
		query:   `SELECT id, member_id, amount, COALESCE(reason, ''), is_closed, timestamp FROM fines ORDER BY id`,
		headers: []string{"id", "member_id", "amount", "reason", "is_closed", "timestamp"},
	},
	{
		sheet:   "Links",
		query:   `SELECT member_id, linked_id, COALESCE(linked_name, ''), created_at FROM links ORDER BY member_id`,
		headers: []string{"member_id", "linked_id", "linked_name", "created_at"},
	},
	{
		sheet:   "Parties",
		query:   `SELECT party_id, creator_id, COALESCE(info, ''), created_at FROM parties ORDER BY party_id`,
		headers: []string{"party_id", "creator_id", "info", "created_at"},
	},
	{
		sheet:   "Party Members",
		query:   `SELECT party_id, member_id FROM party_members ORDER BY party_id, member_id`,
		headers: []string{"party_id", "member_id"},
	},
}

// Exporter copies every relation into the spreadsheet.
type Exporter struct {
	store  *store.Store
	writer SheetWriter
	log    *slog.Logger
}

// New creates an Exporter. A nil logger falls back to slog.Default().
func New(s *store.Store, writer SheetWriter, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: s, writer: writer, log: logger}
}

// Export rewrites every worksheet. The first failing table aborts the
// run; a half-finished export is re-runnable because every sheet write
// is a full overwrite.
func (e *Exporter) Export(ctx context.Context) error {
	for _, tbl := range tables {
		values, err := e.snapshot(ctx, tbl)
		if err != nil {
			return err
		}
		if err := e.writer.WriteSheet(ctx, tbl.sheet, values); err != nil {
			return err
		}
		e.log.Info("sheet exported", "sheet", tbl.sheet, "rows", len(values)-1)
	}
	return nil
}

// snapshot runs a table's query and returns header plus stringified rows.
func (e *Exporter) snapshot(ctx context.Context, tbl table) ([][]any, error) {
	rows, err := e.store.Query(ctx, tbl.query)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", tbl.sheet, err)
	}
	defer rows.Close()

	header := make([]any, len(tbl.headers))
	for i, h := range tbl.headers {
		header[i] = h
	}
	values := [][]any{header}

	scan := make([]any, len(tbl.headers))
	ptrs := make([]any, len(tbl.headers))
	for i := range scan {
		ptrs[i] = &scan[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("export %s: %w", tbl.sheet, err)
		}
		row := make([]any, len(scan))
		for i, v := range scan {
			row[i] = stringify(v)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("export %s: %w", tbl.sheet, err)
	}
	return values, nil
}

// stringify renders a scanned SQL value the way the spreadsheet shows it.
func stringify(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
