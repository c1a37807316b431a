package handoff

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"faqbot/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS transfers (
	id           TEXT PRIMARY KEY,
	question     TEXT NOT NULL,
	reason_kind  TEXT NOT NULL,
	reason       TEXT NOT NULL,
	context_json TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfers_created ON transfers(created_at);
`

// createdLayout is fixed width so created_at sorts chronologically as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSink records transfer tickets in a local queue table so they can be
// reviewed later with `faqbot transfers`.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the queue database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Transfer(ctx context.Context, ticket domain.TransferTicket) error {
	ctxJSON, err := json.Marshal(ticket.Context)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transfers (id, question, reason_kind, reason, context_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ticket.ID, ticket.Question, ticket.ReasonKind, ticket.Reason, string(ctxJSON),
		ticket.CreatedAt.UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// Recent returns up to limit tickets, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]domain.TransferTicket, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, reason_kind, reason, context_json, created_at
		 FROM transfers ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	var out []domain.TransferTicket
	for rows.Next() {
		var (
			t       domain.TransferTicket
			ctxJSON string
			created string
		)
		if err := rows.Scan(&t.ID, &t.Question, &t.ReasonKind, &t.Reason, &ctxJSON, &created); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		if err := json.Unmarshal([]byte(ctxJSON), &t.Context); err != nil {
			return nil, fmt.Errorf("unmarshal context: %w", err)
		}
		if t.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
