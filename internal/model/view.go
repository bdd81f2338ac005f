package model

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// CanUndo reports whether the game has a round to undo.
func (g Game) CanUndo() bool {
	return len(g.Rounds) > 0
}

// RoundCount returns the number of rounds played.
func (g Game) RoundCount() int {
	return len(g.Rounds)
}

// Player returns the player with the given id.
func (g Game) Player(id string) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Remaining returns the points p still needs to reach target, never below zero.
func (p Player) Remaining(target int) decimal.Decimal {
	left := decimal.NewFromInt(int64(target)).Sub(p.Score)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// ScoreFor returns the delta recorded for playerID, or zero.
func (r Round) ScoreFor(playerID string) decimal.Decimal {
	for _, ps := range r.PlayerScores {
		if ps.PlayerID == playerID {
			return ps.Score
		}
	}
	return decimal.Zero
}

// Leader returns the id of the highest-scoring player.
// Ties go to the player listed first. Returns "" for a game with no players.
func Leader(g Game) string {
	standings := Standings(g)
	if len(standings) == 0 {
		return ""
	}
	return standings[0].ID
}

// Standings returns the players ordered by score, highest first.
// The sort is stable, so equal scores keep list order.
func Standings(g Game) []Player {
	out := append([]Player(nil), g.Players...)
	slices.SortStableFunc(out, func(a, b Player) int {
		return b.Score.Cmp(a.Score)
	})
	return out
}

// WinnerPlayer returns the winning player of a completed game.
func WinnerPlayer(g Game) (Player, bool) {
	if !g.Completed || g.Winner == "" {
		return Player{}, false
	}
	return g.Player(g.Winner)
}

// FindGame looks up a game by id or unique id prefix, checking the current
// game first and then history. Ambiguous prefixes match nothing.
func (s GameState) FindGame(ref string) (Game, bool) {
	if ref == "" {
		return Game{}, false
	}

	candidates := make([]Game, 0, len(s.GameHistory)+1)
	if s.CurrentGame != nil {
		candidates = append(candidates, *s.CurrentGame)
	}
	candidates = append(candidates, s.GameHistory...)

	for _, g := range candidates {
		if g.ID == ref {
			return g, true
		}
	}

	var match Game
	found := 0
	for _, g := range candidates {
		if strings.HasPrefix(g.ID, ref) {
			match = g
			found++
		}
	}
	if found != 1 {
		return Game{}, false
	}
	return match, true
}
