package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is a process-local Backend and Journal. Payloads are copied on
// the way in and out so callers cannot alias stored bytes.
type Memory struct {
	mu      sync.RWMutex
	slots   map[string][]byte
	journal []JournalEntry
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Get returns the payload stored under key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the payload stored under key.
func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// AppendJournal records entry. Args pass through the same canonical
// encoding the SQLite journal uses, so both backends read back identical
// values. A duplicate seq is ignored.
func (m *Memory) AppendJournal(ctx context.Context, entry JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := marshalArgs(entry.Args)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	args, err := unmarshalArgs(text)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	entry.Args = args

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.journal {
		if e.Seq == entry.Seq {
			return nil
		}
	}
	m.journal = append(m.journal, entry)
	return nil
}

// ReadJournal returns entries newest first, filtered by q.
func (m *Memory) ReadJournal(ctx context.Context, q JournalQuery) ([]JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := slices.Clone(m.journal)
	slices.SortFunc(all, func(a, b JournalEntry) int {
		return cmp.Compare(b.Seq, a.Seq)
	})

	entries := []JournalEntry{}
	for _, e := range all {
		if q.Op != "" && e.Op != q.Op {
			continue
		}
		entries = append(entries, e)
		if q.Limit > 0 && len(entries) == q.Limit {
			break
		}
	}
	return entries, nil
}

// LastJournalSeq returns the highest recorded seq, or 0.
func (m *Memory) LastJournalSeq(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last int64
	for _, e := range m.journal {
		last = max(last, e.Seq)
	}
	return last, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
