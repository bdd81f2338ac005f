package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/model"
)

// shortIDLen is how much of an id text output shows.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// playerView is one row of a board.
type playerView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Score     decimal.Decimal `json:"score"`
	Remaining decimal.Decimal `json:"remaining"`
	IsWinner  bool            `json:"isWinner"`
}

// boardView is a game's scoreboard.
type boardView struct {
	GameID      string       `json:"gameId"`
	TargetScore int          `json:"targetScore"`
	Rounds      int          `json:"rounds"`
	Completed   bool         `json:"completed"`
	Leader      string       `json:"leader,omitempty"`
	Winner      string       `json:"winner,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
	Players     []playerView `json:"players"`
	Digest      string       `json:"digest,omitempty"`
}

// newBoardView renders g's players in list order.
func newBoardView(g model.Game) boardView {
	return boardFromPlayers(g, g.Players)
}

// newStandingsView renders g's players highest score first.
func newStandingsView(g model.Game) boardView {
	return boardFromPlayers(g, model.Standings(g))
}

func boardFromPlayers(g model.Game, players []model.Player) boardView {
	v := boardView{
		GameID:      g.ID,
		TargetScore: g.TargetScore,
		Rounds:      g.RoundCount(),
		Completed:   g.Completed,
		CreatedAt:   g.CreatedAt,
		Players:     make([]playerView, 0, len(players)),
	}
	if leader, ok := g.Player(model.Leader(g)); ok {
		v.Leader = leader.Name
	}
	if winner, ok := model.WinnerPlayer(g); ok {
		v.Winner = winner.Name
	}
	for _, p := range players {
		v.Players = append(v.Players, playerView{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			Remaining: p.Remaining(g.TargetScore),
			IsWinner:  p.IsWinner,
		})
	}
	return v
}

func (v boardView) winnerRow() (playerView, bool) {
	for _, p := range v.Players {
		if p.Name == v.Winner {
			return p, true
		}
	}
	return playerView{}, false
}

// RenderText writes the board as a table.
func (v boardView) RenderText(w io.Writer) error {
	if v.Completed {
		if p, ok := v.winnerRow(); ok {
			fmt.Fprintf(w, "%s wins with %s points!\n\n", p.Name, p.Score)
		}
	}

	fmt.Fprintf(w, "Game %s  target %d  rounds %d\n", shortID(v.GameID), v.TargetScore, v.Rounds)

	tw := newTable(w)
	fmt.Fprintln(tw, "  PLAYER\tSCORE\tTO GO\tID")
	for _, p := range v.Players {
		mark := " "
		switch {
		case p.IsWinner:
			mark = "*"
		case !v.Completed && p.Name == v.Leader && v.Rounds > 0:
			mark = ">"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, p.Name, p.Score, p.Remaining, shortID(p.ID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !v.Completed && v.Leader != "" && v.Rounds > 0 {
		fmt.Fprintf(w, "Leader: %s\n", v.Leader)
	}
	if v.Digest != "" {
		fmt.Fprintf(w, "Digest: %s\n", v.Digest)
	}
	return nil
}

// statusView is the output of the status command.
type statusView struct {
	CurrentGame  *boardView `json:"currentGame"`
	HistoryCount int        `json:"historyCount"`
	Digest       string     `json:"digest"`
}

func (v statusView) RenderText(w io.Writer) error {
	if v.CurrentGame == nil {
		fmt.Fprintln(w, "No game in progress.")
		fmt.Fprintf(w, "Archived games: %d\n", v.HistoryCount)
		fmt.Fprintf(w, "Digest: %s\n", v.Digest)
		return nil
	}
	board := *v.CurrentGame
	board.Digest = v.Digest
	if err := board.RenderText(w); err != nil {
		return err
	}
	fmt.Fprintf(w, "Archived games: %d\n", v.HistoryCount)
	return nil
}

// undoView is the output of the undo command.
type undoView struct {
	Undone bool       `json:"undone"`
	Board  *boardView `json:"board,omitempty"`
}

func (v undoView) RenderText(w io.Writer) error {
	if !v.Undone {
		fmt.Fprintln(w, "Nothing to undo.")
		return nil
	}
	fmt.Fprintln(w, "Last round undone.")
	return v.Board.RenderText(w)
}

// endView is the output of the end command.
type endView struct {
	Outcome string `json:"outcome"`
	GameID  string `json:"gameId,omitempty"`
	Rounds  int    `json:"rounds"`
}

func (v endView) RenderText(w io.Writer) error {
	switch v.Outcome {
	case "archived":
		fmt.Fprintf(w, "Game %s archived after %d round(s).\n", shortID(v.GameID), v.Rounds)
	case "discarded":
		fmt.Fprintf(w, "Game %s discarded (no rounds played).\n", shortID(v.GameID))
	default:
		fmt.Fprintln(w, "No game in progress.")
	}
	return nil
}

// gameSummary is one row of the history list.
type gameSummary struct {
	ID          string `json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	Players     int    `json:"players"`
	TargetScore int    `json:"targetScore"`
	Rounds      int    `json:"rounds"`
	Completed   bool   `json:"completed"`
	Winner      string `json:"winner,omitempty"`
}

func newGameSummary(g model.Game) gameSummary {
	s := gameSummary{
		ID:          g.ID,
		CreatedAt:   g.CreatedAt,
		Players:     len(g.Players),
		TargetScore: g.TargetScore,
		Rounds:      g.RoundCount(),
		Completed:   g.Completed,
	}
	if winner, ok := model.WinnerPlayer(g); ok {
		s.Winner = winner.Name
	}
	return s
}

// historyView is the output of the history command without an id.
type historyView struct {
	Games []gameSummary `json:"games"`
}

func (v historyView) RenderText(w io.Writer) error {
	if len(v.Games) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tPLAYERS\tTARGET\tROUNDS\tWINNER")
	for _, g := range v.Games {
		winner := g.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(g.ID), formatDate(g.CreatedAt), g.Players, g.TargetScore, g.Rounds, winner)
	}
	return tw.Flush()
}

// journalView is the output of the journal command.
type journalView struct {
	Entries []journalRow `json:"entries"`
}

type journalRow struct {
	Seq        int64  `json:"seq"`
	Op         string `json:"op"`
	Applied    bool   `json:"applied"`
	Args       string `json:"args"`
	Digest     string `json:"digest"`
	RecordedAt int64  `json:"recordedAt"`
}

func (v journalView) RenderText(w io.Writer) error {
	if len(v.Entries) == 0 {
		fmt.Fprintln(w, "Journal is empty.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "SEQ\tOP\tAPPLIED\tDIGEST\tARGS")
	for _, e := range v.Entries {
		applied := "yes"
		if !e.Applied {
			applied = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.Op, applied, shortDigest(e.Digest), e.Args)
	}
	return tw.Flush()
}

func shortDigest(d string) string {
	if len(d) <= 12 {
		return d
	}
	return d[:12]
}

// joinNames lists player names for messages.
func joinNames(players []model.Player) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
