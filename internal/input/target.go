package input

import (
	"strconv"
	"strings"
)

// TargetScore parses a target score. An empty string yields def.
// Anything other than a positive whole number is rejected.
func TargetScore(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, newError(CodeInvalidTarget, "target %q is not a whole number", raw)
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, newError(CodeInvalidTarget, "target %q must be at least 1", raw)
	}
	return n, nil
}
