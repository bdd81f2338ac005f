package store

import (
	"context"
	"fmt"
	"time"
)

// Put replaces the payload stored under key.
// Uses ON CONFLICT(key) DO UPDATE so the slot always holds the latest write.
func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
		key,
		string(value),
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put slot %q: %w", key, err)
	}
	return nil
}

// AppendJournal inserts a journal entry.
// Uses ON CONFLICT(seq) DO NOTHING for idempotency - a duplicate seq is
// silently ignored so a retried append cannot fork the log.
func (s *SQLite) AppendJournal(ctx context.Context, entry JournalEntry) error {
	argsJSON, err := marshalArgs(entry.Args)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	applied := 0
	if entry.Applied {
		applied = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO journal (seq, op, args, applied, digest, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		entry.Seq,
		entry.Op,
		argsJSON,
		applied,
		entry.Digest,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	return nil
}
