package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/tally/internal/model"
)

// JournalEntry records one engine operation and the snapshot it produced.
type JournalEntry struct {
	Seq        int64          `json:"seq"`
	Op         string         `json:"op"`
	Args       map[string]any `json:"args"`
	Applied    bool           `json:"applied"`
	Digest     string         `json:"digest"`
	RecordedAt int64          `json:"recordedAt"`
}

// JournalQuery filters ReadJournal results.
type JournalQuery struct {
	Op    string // empty matches every operation
	Limit int    // zero or negative means no limit
}

// Journal is implemented by backends that keep an operation log.
type Journal interface {
	AppendJournal(ctx context.Context, entry JournalEntry) error
	ReadJournal(ctx context.Context, q JournalQuery) ([]JournalEntry, error)
	LastJournalSeq(ctx context.Context) (int64, error)
}

// marshalArgs converts journal args to canonical JSON TEXT for storage.
// Canonical form keeps identical operations byte-identical in the log.
func marshalArgs(args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	data, err := model.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses journal args TEXT. Numbers stay json.Number so
// decimal deltas keep their exact digits.
func unmarshalArgs(data string) (map[string]any, error) {
	args := map[string]any{}
	if data == "" || data == "{}" {
		return args, nil
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}
