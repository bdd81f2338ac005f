package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots store scores as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultTargetScore is used when a game is created without a target.
const DefaultTargetScore = 100

// Player bounds enforced at game creation.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Player is a participant in a single game.
// IsWinner is always derived from Score and the game's target.
type Player struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Score    decimal.Decimal `json:"score"`
	IsWinner bool            `json:"isWinner"`
}

// PlayerScore is one player's delta within a round.
type PlayerScore struct {
	PlayerID string          `json:"playerId"`
	Score    decimal.Decimal `json:"score"`
}

// Round is one batch of deltas applied to all players at once.
// Players absent from PlayerScores had an implicit delta of zero.
type Round struct {
	ID           string        `json:"id"`
	PlayerScores []PlayerScore `json:"playerScores"`
	Timestamp    int64         `json:"timestamp"`
}

// Game is a single match from creation until it is archived.
type Game struct {
	ID          string   `json:"id"`
	Players     []Player `json:"players"`
	Rounds      []Round  `json:"rounds"`
	TargetScore int      `json:"targetScore"`
	Completed   bool     `json:"completed"`
	Winner      string   `json:"winner,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
}

// GameState is the persisted root: the active game plus archived games,
// most recent first.
type GameState struct {
	CurrentGame *Game  `json:"currentGame"`
	GameHistory []Game `json:"gameHistory"`
}

// NewGameState returns the default state: no current game, empty history.
func NewGameState() GameState {
	return GameState{GameHistory: []Game{}}
}

// MarshalJSON writes empty slices as [] so snapshots never carry nulls
// where arrays are expected.
func (r Round) MarshalJSON() ([]byte, error) {
	type alias Round
	a := alias(r)
	if a.PlayerScores == nil {
		a.PlayerScores = []PlayerScore{}
	}
	return json.Marshal(a)
}

// MarshalJSON writes empty slices as [].
func (g Game) MarshalJSON() ([]byte, error) {
	type alias Game
	a := alias(g)
	if a.Players == nil {
		a.Players = []Player{}
	}
	if a.Rounds == nil {
		a.Rounds = []Round{}
	}
	return json.Marshal(a)
}

// MarshalJSON writes an empty history as [].
func (s GameState) MarshalJSON() ([]byte, error) {
	type alias GameState
	a := alias(s)
	if a.GameHistory == nil {
		a.GameHistory = []Game{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON accepts snapshots with a null or missing history.
func (s *GameState) UnmarshalJSON(data []byte) error {
	type alias GameState
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.GameHistory == nil {
		a.GameHistory = []Game{}
	}
	*s = GameState(a)
	return nil
}

// Clone returns a deep copy of the player list and round list.
// Rounds are immutable, so their score slices are shared.
func (g Game) Clone() Game {
	out := g
	out.Players = append([]Player(nil), g.Players...)
	out.Rounds = append([]Round(nil), g.Rounds...)
	return out
}

// Clone returns a copy of the state that shares no mutable slices with s.
func (s GameState) Clone() GameState {
	out := GameState{GameHistory: make([]Game, len(s.GameHistory))}
	for i, g := range s.GameHistory {
		out.GameHistory[i] = g.Clone()
	}
	if s.CurrentGame != nil {
		g := s.CurrentGame.Clone()
		out.CurrentGame = &g
	}
	return out
}
