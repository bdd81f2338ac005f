package harness

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted session plus the checks to run on its outcome.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// DefaultTarget is the engine's default target. Zero keeps the
	// built-in default.
	DefaultTarget int `yaml:"default_target,omitempty"`

	// Steps run in order against one engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single engine call.
type Step struct {
	// Op is one of create, round, undo, reset.
	Op string `yaml:"op"`

	// Names are the players for create.
	Names []string `yaml:"names,omitempty"`

	// Target is the target score for create. Zero uses the default.
	Target int `yaml:"target,omitempty"`

	// Scores are round deltas keyed by player name.
	Scores map[string]string `yaml:"scores,omitempty"`

	// Expect checks the call's immediate outcome. Nil skips the check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is checked right after a step runs.
type Expect struct {
	// Applied is whether the call changed state.
	Applied *bool `yaml:"applied,omitempty"`

	// Completed is whether a round finished the game.
	Completed *bool `yaml:"completed,omitempty"`

	// Outcome is the reset outcome: none, archived, or discarded.
	Outcome string `yaml:"outcome,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Player is a player name (score, winner).
	Player string `yaml:"player,omitempty"`

	// Value is a decimal score (score) or a boolean (completed).
	Value string `yaml:"value,omitempty"`

	// Game selects "current" or "history[N]". Empty means current.
	Game string `yaml:"game,omitempty"`

	// Count is the expected number (round_count, history_count).
	Count int `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpCreate = "create"
	OpRound  = "round"
	OpUndo   = "undo"
	OpReset  = "reset"
)

// Assertion type constants.
const (
	AssertNoCurrentGame = "no_current_game"
	AssertRoundCount    = "round_count"
	AssertScore         = "score"
	AssertWinner        = "winner"
	AssertHistoryCount  = "history_count"
	AssertCompleted     = "completed"
)

var historyRef = regexp.MustCompile(`^history\[(\d+)\]$`)

// GameRef identifies a game in the final state.
type GameRef struct {
	Current bool
	Index   int // history index when Current is false
}

// String returns the ref in scenario syntax.
func (r GameRef) String() string {
	if r.Current {
		return "current"
	}
	return fmt.Sprintf("history[%d]", r.Index)
}

// ParseGameRef parses "current", "", or "history[N]".
func ParseGameRef(s string) (GameRef, error) {
	if s == "" || s == "current" {
		return GameRef{Current: true}, nil
	}
	m := historyRef.FindStringSubmatch(s)
	if m == nil {
		return GameRef{}, fmt.Errorf("game must be \"current\" or \"history[N]\", got %q", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return GameRef{}, fmt.Errorf("game index %q: %w", m[1], err)
	}
	return GameRef{Index: n}, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.DefaultTarget < 0 {
		return fmt.Errorf("default_target must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks the fields each op needs.
func validateStep(index int, st *Step) error {
	switch st.Op {
	case OpCreate:
		if len(st.Names) == 0 {
			return fmt.Errorf("steps[%d]: names is required for create", index)
		}
		if st.Target < 0 {
			return fmt.Errorf("steps[%d]: target must be non-negative", index)
		}
	case OpRound:
		if len(st.Scores) == 0 {
			return fmt.Errorf("steps[%d]: scores is required for round", index)
		}
	case OpUndo, OpReset:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.Op != OpCreate && (len(st.Names) > 0 || st.Target != 0) {
		return fmt.Errorf("steps[%d]: names and target only apply to create", index)
	}
	if st.Op != OpRound && len(st.Scores) > 0 {
		return fmt.Errorf("steps[%d]: scores only apply to round", index)
	}
	if st.Expect != nil {
		if st.Expect.Completed != nil && st.Op != OpRound {
			return fmt.Errorf("steps[%d].expect: completed only applies to round", index)
		}
		if st.Expect.Outcome != "" && st.Op != OpReset {
			return fmt.Errorf("steps[%d].expect: outcome only applies to reset", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if _, err := ParseGameRef(a.Game); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}

	switch a.Type {
	case AssertNoCurrentGame:
	case AssertRoundCount, AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertScore:
		if a.Player == "" {
			return fmt.Errorf("assertions[%d]: player is required for score", index)
		}
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for score", index)
		}
	case AssertWinner:
		if a.Player == "" {
			return fmt.Errorf("assertions[%d]: player is required for winner", index)
		}
	case AssertCompleted:
		if _, err := strconv.ParseBool(a.Value); err != nil {
			return fmt.Errorf("assertions[%d]: value must be true or false for completed", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
