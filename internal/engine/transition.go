package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/model"
)

// ResetOutcome describes what ResetGame did with the current game.
type ResetOutcome int

const (
	// ResetNone means there was no current game.
	ResetNone ResetOutcome = iota
	// ResetArchived means the game had rounds and moved to history.
	ResetArchived
	// ResetDiscarded means the game had no rounds and was dropped.
	ResetDiscarded
)

// String returns the outcome name used in journals and CLI output.
func (o ResetOutcome) String() string {
	switch o {
	case ResetArchived:
		return "archived"
	case ResetDiscarded:
		return "discarded"
	default:
		return "none"
	}
}

// NewGame builds a game with one zero-score player per name, in order.
// The game id is generated before the player ids.
func NewGame(names []string, targetScore int, now int64, ids IDGenerator) model.Game {
	g := model.Game{
		ID:          ids.Generate(),
		Players:     make([]model.Player, len(names)),
		Rounds:      []model.Round{},
		TargetScore: targetScore,
		CreatedAt:   now,
	}
	for i, name := range names {
		g.Players[i] = model.Player{
			ID:    ids.Generate(),
			Name:  name,
			Score: decimal.Zero,
		}
	}
	return g
}

// NewRound captures scores as a round of g.
//
// Every entry of scores is recorded. Entries for g's players come first in
// player-list order; entries for unknown ids follow in lexical order.
func NewRound(g model.Game, scores map[string]decimal.Decimal, id string, now int64) model.Round {
	entries := make([]model.PlayerScore, 0, len(scores))
	known := make(map[string]bool, len(g.Players))

	for _, p := range g.Players {
		known[p.ID] = true
		if delta, ok := scores[p.ID]; ok {
			entries = append(entries, model.PlayerScore{PlayerID: p.ID, Score: delta})
		}
	}

	var extra []string
	for pid := range scores {
		if !known[pid] {
			extra = append(extra, pid)
		}
	}
	slices.Sort(extra)
	for _, pid := range extra {
		entries = append(entries, model.PlayerScore{PlayerID: pid, Score: scores[pid]})
	}

	return model.Round{ID: id, PlayerScores: entries, Timestamp: now}
}

// ApplyCreate installs g as the current game. Any previous current game is
// dropped without archiving; callers that want it kept must reset first.
func ApplyCreate(s model.GameState, g model.Game) model.GameState {
	next := s.Clone()
	created := g.Clone()
	next.CurrentGame = &created
	return next
}

// ApplyRound adds r to the current game and recomputes winners.
//
// Returns the updated game as it stood right after the round, and false
// if there is no current game. A completing round moves the game to the
// front of history and clears the current game.
func ApplyRound(s model.GameState, r model.Round) (model.GameState, model.Game, bool) {
	if s.CurrentGame == nil {
		return s, model.Game{}, false
	}

	next := s.Clone()
	g := next.CurrentGame.Clone()
	target := decimal.NewFromInt(int64(g.TargetScore))

	g.Completed = false
	g.Winner = ""
	for i := range g.Players {
		p := &g.Players[i]
		p.Score = p.Score.Add(r.ScoreFor(p.ID))
		p.IsWinner = p.Score.GreaterThanOrEqual(target)
		if p.IsWinner && !g.Completed {
			g.Completed = true
			g.Winner = p.ID
		}
	}
	g.Rounds = append(g.Rounds, r)

	if g.Completed {
		next.CurrentGame = nil
		next.GameHistory = append([]model.Game{g.Clone()}, next.GameHistory...)
	} else {
		current := g.Clone()
		next.CurrentGame = &current
	}

	return next, g, true
}

// ApplyUndo removes the last round of the current game and subtracts its
// deltas. Returns false if there is no current game or it has no rounds.
//
// Every player's IsWinner is cleared without comparing against the target.
// This differs from ApplyRound, which always derives IsWinner from the score;
// the two agree whenever the undone round did not complete the game.
func ApplyUndo(s model.GameState) (model.GameState, model.Round, bool) {
	if s.CurrentGame == nil || len(s.CurrentGame.Rounds) == 0 {
		return s, model.Round{}, false
	}

	next := s.Clone()
	g := next.CurrentGame
	last := g.Rounds[len(g.Rounds)-1]
	g.Rounds = g.Rounds[:len(g.Rounds)-1]

	for i := range g.Players {
		p := &g.Players[i]
		p.Score = p.Score.Sub(last.ScoreFor(p.ID))
		p.IsWinner = false
	}
	g.Completed = false
	g.Winner = ""

	return next, last, true
}

// ApplyReset ends the current game. A game with rounds is archived as-is to
// the front of history; a game without rounds is discarded.
func ApplyReset(s model.GameState) (model.GameState, ResetOutcome) {
	if s.CurrentGame == nil {
		return s, ResetNone
	}

	next := s.Clone()
	g := *next.CurrentGame
	next.CurrentGame = nil

	if len(g.Rounds) == 0 {
		return next, ResetDiscarded
	}

	next.GameHistory = append([]model.Game{g}, next.GameHistory...)
	return next, ResetArchived
}
