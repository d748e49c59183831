// apps/go-server/internal/game/types.go
//
// Core type definitions for the Hoopdle game engine.
// Defines:
//   - Status: per-attribute result of comparing a guess to the target.
//   - Player: one candidate record as supplied by the roster provider.
//   - Feedback / Comparison: per-attribute and whole-guess comparison results.
//   - GuessedPlayer / Guess: a single immutable history entry.

package game

// Status represents the evaluation result for a single attribute of a guess.
// Possible values:
//   - "correct":   attribute matches the target.
//   - "incorrect": attribute does not match, or is unknown on either side.
//   - "partial":   same position group but not the same position (position only).
//   - "higher":    the target's value is higher than the guessed value.
//   - "lower":     the target's value is lower than the guessed value.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusPartial   Status = "partial"
	StatusHigher    Status = "higher"
	StatusLower     Status = "lower"
)

// Player holds one candidate record. The numeric ID is the only identity
// field; everything else is descriptive and may be missing for fringe
// players (two-way contracts, free agents, historical seasons).
type Player struct {
	ID               int     `json:"id"`                  // upstream player identifier
	Name             string  `json:"name"`                // display name
	Team             string  `json:"team"`                // full team name ("Los Angeles Lakers")
	TeamAbbreviation string  `json:"team_abbreviation"`   // short code ("LAL"), may be empty
	Division         string  `json:"division"`            // e.g. "Pacific", empty when unknown
	Conference       string  `json:"conference"`          // "East"/"West", empty when unknown
	Age              *int    `json:"age"`                 // years, nil when unknown
	Height           string  `json:"height"`              // feet-inches listing ("6-9"), empty when unknown
	Position         string  `json:"position"`            // raw listing ("Guard", "F-C", ...)
	JerseyNumber     *int    `json:"jersey_number"`       // nil when unknown
	PPG              float64 `json:"ppg"`                 // points per game, 0.0 when absent
	ImageURL         string  `json:"image_url,omitempty"` // headshot URL, display only, never compared
	Season           string  `json:"season,omitempty"`    // season the record was built for
}

// Feedback is the outcome for one attribute: the raw values that were
// compared (as presented, pre-normalization) plus the resulting status.
// Guessed/Target hold a string, a number, or nil for a missing value.
type Feedback struct {
	Attribute string `json:"attribute"`
	Guessed   any    `json:"guessed"`
	Target    any    `json:"target"`
	Status    Status `json:"status"`
}

// Comparison groups per-attribute feedback for a whole guess. The attribute
// set is fixed; field tags mirror the JSON keys the client renders.
type Comparison struct {
	Team         Feedback `json:"team"`
	Division     Feedback `json:"division"`
	Conference   Feedback `json:"conference"`
	Age          Feedback `json:"age"`
	Height       Feedback `json:"height"`
	Position     Feedback `json:"position"`
	JerseyNumber Feedback `json:"jersey_number"`
	PPG          Feedback `json:"ppg"`
}

// GuessedPlayer is the sanitized view of a guessed player kept in history:
// identity, display name, and the compared attributes only.
type GuessedPlayer struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	Division     string  `json:"division"`
	Conference   string  `json:"conference"`
	Age          *int    `json:"age"`
	Height       string  `json:"height"`
	Position     string  `json:"position"`
	JerseyNumber *int    `json:"jersey_number"`
	PPG          float64 `json:"ppg"`
}

// Guess is one entry in a session's guess history. Entries are immutable
// once appended.
type Guess struct {
	Player      GuessedPlayer `json:"guessed_player"`
	Comparison  Comparison    `json:"comparison"`
	IsCorrect   bool          `json:"is_correct"`
	GuessNumber int           `json:"guess_number"` // 1-based position in the history
}
