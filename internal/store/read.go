package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the payload stored under key.
// Returns ErrNotFound if the slot has never been written.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// ReadJournal returns journal entries newest first.
// Results are ordered by seq, never by recorded_at.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *SQLite) ReadJournal(ctx context.Context, q JournalQuery) ([]JournalEntry, error) {
	query := `SELECT seq, op, args, applied, digest, recorded_at FROM journal`
	var args []any
	if q.Op != "" {
		query += ` WHERE op = ?`
		args = append(args, q.Op)
	}
	query += ` ORDER BY seq DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}

	return entries, nil
}

// LastJournalSeq returns the highest journal seq, or 0 for an empty journal.
// The engine resumes its logical clock from this value.
func (s *SQLite) LastJournalSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM journal`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last journal seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

func scanJournalEntry(rows *sql.Rows) (JournalEntry, error) {
	var (
		entry   JournalEntry
		argsStr string
		applied int
	)
	if err := rows.Scan(&entry.Seq, &entry.Op, &argsStr, &applied, &entry.Digest, &entry.RecordedAt); err != nil {
		return JournalEntry{}, fmt.Errorf("scan journal entry: %w", err)
	}

	args, err := unmarshalArgs(argsStr)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("journal entry %d: %w", entry.Seq, err)
	}
	entry.Args = args
	entry.Applied = applied != 0

	return entry, nil
}
