package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
)

// DefaultSlotKey is the storage key holding the GameState snapshot.
const DefaultSlotKey = "dominoGameState"

// Operation names recorded in the journal.
const (
	OpCreate = "create"
	OpRound  = "round"
	OpUndo   = "undo"
	OpReset  = "reset"
)

// Engine owns the GameState for one session.
//
// State is loaded once at construction and written back after every applied
// operation. The engine is not safe for concurrent use.
type Engine struct {
	adapter       *store.Adapter
	key           string
	state         model.GameState
	ids           IDGenerator
	now           TimeSource
	clock         *Clock
	journal       store.Journal
	defaultTarget int
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSlotKey sets the storage key. Default: DefaultSlotKey.
func WithSlotKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithTimeSource replaces the system clock.
func WithTimeSource(t TimeSource) Option {
	return func(e *Engine) {
		e.now = t
	}
}

// WithJournal appends every operation to j. The logical clock resumes
// after j's last entry.
func WithJournal(j store.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithDefaultTarget sets the target used when CreateGame gets none.
// Default: model.DefaultTargetScore.
func WithDefaultTarget(target int) Option {
	return func(e *Engine) {
		if target > 0 {
			e.defaultTarget = target
		}
	}
}

// WithLogger sets the engine's logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine and loads the persisted snapshot through adapter.
// A missing or unreadable snapshot starts the session from an empty state.
func New(ctx context.Context, adapter *store.Adapter, opts ...Option) *Engine {
	e := &Engine{
		adapter:       adapter,
		key:           DefaultSlotKey,
		ids:           UUIDv7Generator{},
		now:           SystemTime{},
		clock:         NewClock(),
		defaultTarget: model.DefaultTargetScore,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.journal != nil {
		last, err := e.journal.LastJournalSeq(ctx)
		if err != nil {
			e.logger.Warn("journal seq unavailable, starting at 0", "error", err)
		}
		e.clock = NewClockAt(last)
	}

	e.state = store.Load(ctx, e.adapter, e.key, model.NewGameState())
	e.logger.Debug("engine loaded",
		"key", e.key,
		"current_game", e.state.CurrentGame != nil,
		"history", len(e.state.GameHistory),
	)

	return e
}

// State returns a copy of the full game state.
func (e *Engine) State() model.GameState {
	return e.state.Clone()
}

// CurrentGame returns a copy of the active game, if any.
func (e *Engine) CurrentGame() (model.Game, bool) {
	if e.state.CurrentGame == nil {
		return model.Game{}, false
	}
	return e.state.CurrentGame.Clone(), true
}

// History returns archived games, most recent first.
func (e *Engine) History() []model.Game {
	return e.state.Clone().GameHistory
}

// CreateGame starts a new game and makes it current.
//
// names must already be validated (see input.Names). A targetScore of zero
// or less selects the default target. An existing current game is replaced
// without being archived.
func (e *Engine) CreateGame(ctx context.Context, names []string, targetScore int) model.Game {
	if targetScore <= 0 {
		targetScore = e.defaultTarget
	}

	g := NewGame(names, targetScore, e.now.NowMillis(), e.ids)
	if e.state.CurrentGame != nil {
		e.logger.Info("replacing current game without archiving",
			"replaced", e.state.CurrentGame.ID,
			"rounds", len(e.state.CurrentGame.Rounds),
		)
	}

	e.commit(ctx, OpCreate, map[string]any{
		"gameId":      g.ID,
		"names":       names,
		"targetScore": targetScore,
	}, ApplyCreate(e.state, g), true)

	e.logger.Info("game created", "game", g.ID, "players", len(g.Players), "target", targetScore)
	return g.Clone()
}

// AddRound applies one round of deltas keyed by player id.
//
// Players missing from scores get a delta of zero. Returns the game as it
// stood right after the round, and false when there is no current game.
// If the round completes the game, the game is archived and no longer current.
func (e *Engine) AddRound(ctx context.Context, scores map[string]decimal.Decimal) (model.Game, bool) {
	if e.state.CurrentGame == nil {
		e.commit(ctx, OpRound, map[string]any{"scores": scores}, e.state, false)
		return model.Game{}, false
	}

	r := NewRound(*e.state.CurrentGame, scores, e.ids.Generate(), e.now.NowMillis())
	next, g, _ := ApplyRound(e.state, r)

	e.commit(ctx, OpRound, map[string]any{
		"gameId":  g.ID,
		"roundId": r.ID,
		"scores":  scores,
	}, next, true)

	if g.Completed {
		e.logger.Info("game completed", "game", g.ID, "winner", g.Winner, "rounds", len(g.Rounds))
	} else {
		e.logger.Debug("round added", "game", g.ID, "round", r.ID)
	}
	return g, true
}

// UndoLastRound removes the last round of the current game.
// Returns false when there is no current game or no round to undo.
func (e *Engine) UndoLastRound(ctx context.Context) bool {
	next, removed, ok := ApplyUndo(e.state)
	if !ok {
		e.commit(ctx, OpUndo, nil, e.state, false)
		return false
	}

	e.commit(ctx, OpUndo, map[string]any{
		"gameId":  next.CurrentGame.ID,
		"roundId": removed.ID,
	}, next, true)

	e.logger.Debug("round undone", "game", next.CurrentGame.ID, "round", removed.ID)
	return true
}

// ResetGame ends the current game, archiving it if it has rounds.
func (e *Engine) ResetGame(ctx context.Context) ResetOutcome {
	var gameID string
	if e.state.CurrentGame != nil {
		gameID = e.state.CurrentGame.ID
	}

	next, outcome := ApplyReset(e.state)
	args := map[string]any{"outcome": outcome.String()}
	if gameID != "" {
		args["gameId"] = gameID
	}
	e.commit(ctx, OpReset, args, next, outcome != ResetNone)

	if outcome != ResetNone {
		e.logger.Info("game ended", "game", gameID, "outcome", outcome.String())
	}
	return outcome
}

// commit installs next when applied, persists it, and journals the call.
// No-op calls are journaled but not saved.
func (e *Engine) commit(ctx context.Context, op string, args map[string]any, next model.GameState, applied bool) {
	if applied {
		e.state = next
		store.Save(ctx, e.adapter, e.key, e.state)
	}

	if e.journal == nil {
		return
	}

	digest, err := model.SnapshotDigest(e.state)
	if err != nil {
		e.logger.Warn("snapshot digest failed", "op", op, "error", err)
	}

	entry := store.JournalEntry{
		Seq:        e.clock.Next(),
		Op:         op,
		Args:       args,
		Applied:    applied,
		Digest:     digest,
		RecordedAt: e.now.NowMillis(),
	}
	if err := e.journal.AppendJournal(ctx, entry); err != nil {
		e.logger.Error("journal append failed", "op", op, "seq", entry.Seq, "error", err)
	}
}
