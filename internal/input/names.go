package input

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tally/internal/model"
)

// MaxNameLength is the longest accepted player name, in runes.
const MaxNameLength = 20

// NormalizeName trims surrounding whitespace and applies NFC.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Names validates a new game's player names and returns them normalized,
// in the order given.
func Names(raw []string) ([]string, error) {
	if len(raw) < model.MinPlayers {
		return nil, newError(CodeTooFewPlayers, "need at least %d players, got %d", model.MinPlayers, len(raw))
	}
	if len(raw) > model.MaxPlayers {
		return nil, newError(CodeTooManyPlayers, "at most %d players allowed, got %d", model.MaxPlayers, len(raw))
	}

	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, r := range raw {
		name := NormalizeName(r)
		switch {
		case name == "":
			return nil, newError(CodeEmptyName, "player %d has an empty name", i+1)
		case utf8.RuneCountInString(name) > MaxNameLength:
			return nil, newError(CodeNameTooLong, "name %q is longer than %d characters", name, MaxNameLength)
		}
		if prev, dup := seen[name]; dup {
			return nil, newError(CodeDuplicateName, "players %d and %d are both named %q", prev+1, i+1, name)
		}
		seen[name] = i
		names[i] = name
	}
	return names, nil
}
