package engine

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

// newTestEngine returns an engine on a fresh memory backend with
// deterministic ids ("id-0001", ...) and timestamps.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return newEngineOn(t, mem, opts...), mem
}

func newEngineOn(t *testing.T, backend store.Backend, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithIDGenerator(testutil.NewSequenceGenerator("id")),
		WithTimeSource(testutil.NewDeterministicClock()),
	}
	return New(context.Background(), store.NewAdapter(backend, nil), append(base, opts...)...)
}

func scores(pairs ...any) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i].(string)] = decimal.RequireFromString(pairs[i+1].(string))
	}
	return m
}

func TestEngine_StartsEmpty(t *testing.T) {
	e, _ := newTestEngine(t)

	_, ok := e.CurrentGame()
	assert.False(t, ok)
	assert.NotNil(t, e.History())
	assert.Empty(t, e.History())
}

func TestEngine_CreateGame(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	g := e.CreateGame(ctx, []string{"Ana", "Ben", "Cy"}, 150)

	assert.Equal(t, "id-0001", g.ID)
	require.Len(t, g.Players, 3)
	assert.Equal(t, "id-0002", g.Players[0].ID)
	assert.Equal(t, "Cy", g.Players[2].Name)
	assert.Equal(t, 150, g.TargetScore)
	assert.Equal(t, testutil.BaseMillis, g.CreatedAt)

	current, ok := e.CurrentGame()
	require.True(t, ok)
	assert.Equal(t, g.ID, current.ID)
}

func TestEngine_CreateGameDefaultTarget(t *testing.T) {
	e, _ := newTestEngine(t)
	g := e.CreateGame(context.Background(), []string{"Ana", "Ben"}, 0)
	assert.Equal(t, model.DefaultTargetScore, g.TargetScore)

	e2, _ := newTestEngine(t, WithDefaultTarget(61))
	g2 := e2.CreateGame(context.Background(), []string{"Ana", "Ben"}, -5)
	assert.Equal(t, 61, g2.TargetScore)
}

func TestEngine_CreateGameDropsUnarchivedGame(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	_, ok := e.AddRound(ctx, scores(first.Players[0].ID, "10"))
	require.True(t, ok)

	second := e.CreateGame(ctx, []string{"Cy", "Di"}, 100)

	current, _ := e.CurrentGame()
	assert.Equal(t, second.ID, current.ID)
	assert.Empty(t, e.History())
}

func TestEngine_AddRoundWithoutGameIsNoop(t *testing.T) {
	e, mem := newTestEngine(t)

	_, ok := e.AddRound(context.Background(), scores("x", "5"))
	assert.False(t, ok)

	_, err := mem.Get(context.Background(), DefaultSlotKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "no-op must not write")
}

func TestEngine_AddRoundMissingPlayersScoreZero(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)

	after, ok := e.AddRound(ctx, scores(g.Players[1].ID, "7.5"))
	require.True(t, ok)

	assert.True(t, after.Players[0].Score.IsZero())
	assert.True(t, after.Players[1].Score.Equal(decimal.RequireFromString("7.5")))
	require.Len(t, after.Rounds, 1)
	assert.Equal(t, "id-0004", after.Rounds[0].ID)
}

func TestEngine_TieBreakCompletesAndArchives(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	g := e.CreateGame(ctx, []string{"A", "B"}, 100)
	a, b := g.Players[0].ID, g.Players[1].ID

	_, _ = e.AddRound(ctx, scores(a, "90", b, "95"))
	done, ok := e.AddRound(ctx, scores(a, "15", b, "5"))
	require.True(t, ok)

	assert.True(t, done.Completed)
	assert.Equal(t, a, done.Winner)

	_, current := e.CurrentGame()
	assert.False(t, current)
	require.Len(t, e.History(), 1)
	assert.Equal(t, g.ID, e.History()[0].ID)
}

func TestEngine_UndoRestoresPriorSnapshot(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)

	_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "30"))
	before := model.MustSnapshotDigest(e.State())

	_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "12", g.Players[1].ID, "4"))
	require.True(t, e.UndoLastRound(ctx))

	assert.Equal(t, before, model.MustSnapshotDigest(e.State()))
}

func TestEngine_UndoWithoutRounds(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	assert.False(t, e.UndoLastRound(ctx))

	e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	assert.False(t, e.UndoLastRound(ctx))
}

func TestEngine_ResetOutcomes(t *testing.T) {
	ctx := context.Background()

	e, _ := newTestEngine(t)
	assert.Equal(t, ResetNone, e.ResetGame(ctx))

	e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	assert.Equal(t, ResetDiscarded, e.ResetGame(ctx))
	assert.Empty(t, e.History())

	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	for i := 0; i < 3; i++ {
		_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "5"))
	}
	assert.Equal(t, ResetArchived, e.ResetGame(ctx))
	require.Len(t, e.History(), 1)
	assert.Len(t, e.History()[0].Rounds, 3)
	assert.False(t, e.History()[0].Completed)
}

func TestEngine_ArchivedGameUnaffectedByLaterGames(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 50)
	_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "60"))
	archived, err := model.GameDigest(e.History()[0])
	require.NoError(t, err)

	next := e.CreateGame(ctx, []string{"Cy", "Di"}, 50)
	_, _ = e.AddRound(ctx, scores(next.Players[1].ID, "10"))
	_ = e.UndoLastRound(ctx)
	_ = e.ResetGame(ctx)

	require.Len(t, e.History(), 1)
	got, err := model.GameDigest(e.History()[0])
	require.NoError(t, err)
	assert.Equal(t, archived, got)
}

func TestEngine_StateIsACopy(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)

	s := e.State()
	s.CurrentGame.Players[0].Name = "Mallory"

	current, _ := e.CurrentGame()
	assert.Equal(t, "Ana", current.Players[0].Name)
}

func TestEngine_PersistsAcrossSessions(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	e := newEngineOn(t, mem)
	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "40"))
	want := model.MustSnapshotDigest(e.State())

	reopened := newEngineOn(t, mem)
	assert.Equal(t, want, model.MustSnapshotDigest(reopened.State()))
}

func TestEngine_CustomSlotKey(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	e := newEngineOn(t, mem, WithSlotKey("league"))
	e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)

	_, err := mem.Get(ctx, "league")
	assert.NoError(t, err)
	_, err = mem.Get(ctx, DefaultSlotKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEngine_CorruptSnapshotStartsEmpty(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Put(context.Background(), DefaultSlotKey, []byte("not json")))

	e := newEngineOn(t, mem)
	_, ok := e.CurrentGame()
	assert.False(t, ok)
	assert.Empty(t, e.History())
}

type downBackend struct{}

func (downBackend) Get(context.Context, string) ([]byte, error) { return nil, assert.AnError }
func (downBackend) Put(context.Context, string, []byte) error { return assert.AnError }
func (downBackend) Close() error { return nil }

func TestEngine_StorageFailureKeepsInMemoryState(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	e := New(ctx, store.NewAdapter(downBackend{}, logger),
		WithIDGenerator(testutil.NewSequenceGenerator("id")),
		WithTimeSource(testutil.NewDeterministicClock()),
	)
	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	_, ok := e.AddRound(ctx, scores(g.Players[0].ID, "25"))
	require.True(t, ok)

	current, ok := e.CurrentGame()
	require.True(t, ok)
	assert.True(t, current.Players[0].Score.Equal(decimal.NewFromInt(25)))
	assert.Contains(t, logs.String(), "slot write failed")
}

func TestEngine_JournalRecordsEveryCall(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := newEngineOn(t, db, WithJournal(db))
	g := e.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	_, _ = e.AddRound(ctx, scores(g.Players[0].ID, "10"))
	_ = e.UndoLastRound(ctx)
	_ = e.UndoLastRound(ctx) // no-op
	_ = e.ResetGame(ctx)

	entries, err := db.ReadJournal(ctx, store.JournalQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// newest first
	ops := make([]string, len(entries))
	for i, en := range entries {
		ops[i] = en.Op
	}
	assert.Equal(t, []string{OpReset, OpUndo, OpUndo, OpRound, OpCreate}, ops)
	assert.Equal(t, int64(5), entries[0].Seq)
	assert.False(t, entries[1].Applied)
	assert.True(t, entries[2].Applied)
	assert.Equal(t, "discarded", entries[0].Args["outcome"])
	assert.Equal(t, model.MustSnapshotDigest(e.State()), entries[0].Digest)
	// a no-op leaves the digest where the previous entry left it
	assert.Equal(t, entries[2].Digest, entries[1].Digest)
}

func TestEngine_JournalSeqResumes(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	first := newEngineOn(t, db, WithJournal(db))
	first.CreateGame(ctx, []string{"Ana", "Ben"}, 100)
	first.ResetGame(ctx)

	second := newEngineOn(t, db, WithJournal(db))
	second.ResetGame(ctx)

	last, err := db.LastJournalSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
}
