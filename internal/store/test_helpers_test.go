package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed SQLite store for testing.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestLogger returns a debug logger that writes into buf.
func createTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var errBackendDown = errors.New("backend down")

// failingBackend fails every operation with errBackendDown.
type failingBackend struct {
	puts int
}

func (f *failingBackend) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }

func (f *failingBackend) Put(context.Context, string, []byte) error {
	f.puts++
	return errBackendDown
}

func (f *failingBackend) Close() error { return nil }
