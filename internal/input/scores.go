package input

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/model"
)

// scorePattern accepts whole numbers and at most one decimal place.
var scorePattern = regexp.MustCompile(`^\d*\.?\d{0,1}$`)

// RoundScores parses PLAYER=SCORE arguments for one round of g.
//
// A player is referenced by name, by id, or by a unique id prefix. An empty
// value (or a lone ".") counts as no entry; at least one player must have
// a value. The result has an entry for every player of g, zero for those
// not mentioned.
func RoundScores(g model.Game, args []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(g.Players))
	for _, p := range g.Players {
		out[p.ID] = decimal.Zero
	}

	given := make(map[string]bool, len(args))
	entered := 0
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i < 0 {
			return nil, newError(CodeInvalidScore, "%q is not PLAYER=SCORE", arg)
		}
		ref, value := arg[:i], strings.TrimSpace(arg[i+1:])

		p, err := resolvePlayer(g, ref)
		if err != nil {
			return nil, err
		}
		if given[p.ID] {
			return nil, newError(CodeRepeatedPlayer, "%s has more than one score", p.Name)
		}
		given[p.ID] = true

		if !scorePattern.MatchString(value) {
			return nil, newError(CodeInvalidScore, "score %q for %s must be a number with at most one decimal place", value, p.Name)
		}
		if value == "" || value == "." {
			continue
		}
		if strings.HasPrefix(value, ".") {
			value = "0" + value
		}
		delta, err := decimal.NewFromString(value)
		if err != nil {
			return nil, newError(CodeInvalidScore, "score %q for %s: %v", value, p.Name, err)
		}
		out[p.ID] = delta
		entered++
	}

	if entered == 0 {
		return nil, newError(CodeNoScores, "enter a score for at least one player")
	}
	return out, nil
}

// resolvePlayer finds a player of g by name, id, or unique id prefix.
func resolvePlayer(g model.Game, ref string) (model.Player, error) {
	name := NormalizeName(ref)
	for _, p := range g.Players {
		if p.Name == name || p.ID == ref {
			return p, nil
		}
	}

	var match []model.Player
	if ref != "" {
		for _, p := range g.Players {
			if strings.HasPrefix(p.ID, ref) {
				match = append(match, p)
			}
		}
	}
	if len(match) == 1 {
		return match[0], nil
	}
	return model.Player{}, newError(CodeUnknownPlayer, "no player matches %q", ref)
}
