package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
)

// Adapter gives best-effort typed access to a Backend.
// It never returns storage errors; it logs them and carries on.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter wraps backend. A nil logger discards all output.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{backend: backend, logger: logger}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load returns the value stored under key decoded as T.
// Returns def when the key is absent, the payload is not valid JSON for T,
// or the backend read fails.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	data, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		a.logger.Debug("slot empty, using default", "key", key)
		return def
	}
	if err != nil {
		a.logger.Warn("slot read failed, using default", "key", key, "error", err)
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		a.logger.Warn("slot payload corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Save encodes value as JSON and writes it under key.
// Failures are logged and dropped; the caller's state is unaffected.
func Save[T any](ctx context.Context, a *Adapter, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Error("slot encode failed, write dropped", "key", key, "error", err)
		return
	}
	if err := a.backend.Put(ctx, key, data); err != nil {
		a.logger.Error("slot write failed, write dropped", "key", key, "error", err)
		return
	}
	a.logger.Debug("slot saved", "key", key, "bytes", len(data))
}
