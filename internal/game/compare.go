// apps/go-server/internal/game/compare.go
//
// Attribute comparison for the Hoopdle engine.
// Responsibilities:
//   - Compare a guessed player to the target, attribute by attribute.
//   - Team matching with an abbreviation fallback for mixed data sources.
//   - Directional feedback (higher/lower) for age, height, jersey, PPG.
//   - Position grouping (guard/forward/center) for partial credit.
//
// Notes:
//   - Compare is pure: it reads no session state and never fails. Missing
//     or malformed values degrade to "incorrect" instead of erroring.
//   - "higher"/"lower" always describe the TARGET relative to the guess:
//     guessing 35 against a 39-year-old target yields "higher".

package game

import (
	"strconv"
	"strings"
)

// Compare evaluates a guessed player against the target and returns
// feedback for every attribute.
func Compare(target, guessed *Player) Comparison {
	return Comparison{
		Team:         compareTeam(target, guessed),
		Division:     compareText("division", guessed.Division, target.Division),
		Conference:   compareText("conference", guessed.Conference, target.Conference),
		Age:          compareOptionalInt("age", guessed.Age, target.Age),
		Height:       compareHeight(guessed.Height, target.Height),
		Position:     comparePosition(guessed.Position, target.Position),
		JerseyNumber: compareOptionalInt("jersey_number", guessed.JerseyNumber, target.JerseyNumber),
		PPG:          comparePPG(guessed.PPG, target.PPG),
	}
}

// compareTeam matches on the full team name first, then falls back to the
// abbreviation so records from mixed sources still line up. An empty team
// on either side is "incorrect".
func compareTeam(target, guessed *Player) Feedback {
	fb := Feedback{Attribute: "team", Guessed: guessed.Team, Target: target.Team, Status: StatusIncorrect}

	gt := strings.ToLower(guessed.Team)
	tt := strings.ToLower(target.Team)
	if gt == "" || tt == "" {
		return fb
	}
	if gt == tt {
		fb.Status = StatusCorrect
		return fb
	}

	ga := strings.ToLower(guessed.TeamAbbreviation)
	ta := strings.ToLower(target.TeamAbbreviation)
	if ga != "" && ta != "" && ga == ta {
		fb.Status = StatusCorrect
	}
	return fb
}

// compareText is the shared rule for division and conference:
// case-insensitive equality, empty on either side is "incorrect".
func compareText(attr, guessed, target string) Feedback {
	fb := Feedback{Attribute: attr, Guessed: guessed, Target: target, Status: StatusIncorrect}
	if guessed == "" || target == "" {
		return fb
	}
	if strings.EqualFold(guessed, target) {
		fb.Status = StatusCorrect
	}
	return fb
}

// compareOptionalInt gives directional feedback for optional numeric
// attributes (age, jersey number). A missing value on either side is
// "incorrect", never an error.
func compareOptionalInt(attr string, guessed, target *int) Feedback {
	fb := Feedback{Attribute: attr, Status: StatusIncorrect}
	if guessed != nil {
		fb.Guessed = *guessed
	}
	if target != nil {
		fb.Target = *target
	}
	if guessed == nil || target == nil {
		return fb
	}
	switch {
	case *guessed == *target:
		fb.Status = StatusCorrect
	case *guessed < *target:
		fb.Status = StatusHigher
	default:
		fb.Status = StatusLower
	}
	return fb
}

// compareHeight parses feet-inches listings ("6-9") and compares total
// inches. Identical strings are correct even when unparseable; otherwise an
// unparseable or empty height on either side is "incorrect".
func compareHeight(guessed, target string) Feedback {
	fb := Feedback{Attribute: "height", Guessed: guessed, Target: target, Status: StatusIncorrect}
	if guessed == "" || target == "" {
		return fb
	}
	if guessed == target {
		fb.Status = StatusCorrect
		return fb
	}

	gin, gok := heightToInches(guessed)
	tin, tok := heightToInches(target)
	if !gok || !tok {
		return fb
	}
	switch {
	case gin == tin:
		fb.Status = StatusCorrect
	case gin < tin:
		fb.Status = StatusHigher
	default:
		fb.Status = StatusLower
	}
	return fb
}

// heightToInches converts a height listing like "6-9" to total inches.
// The listing must be exactly feet-dash-inches; anything else is rejected.
func heightToInches(s string) (int, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, false
	}
	feet, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	inches, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return feet*12 + inches, true
}

// comparePosition is exact match first (case-insensitive); otherwise a
// guess in the same broad group as the target earns "partial".
func comparePosition(guessed, target string) Feedback {
	fb := Feedback{Attribute: "position", Guessed: guessed, Target: target, Status: StatusIncorrect}
	if guessed == "" || target == "" {
		return fb
	}
	if strings.EqualFold(guessed, target) {
		fb.Status = StatusCorrect
		return fb
	}

	gg, gok := positionGroup(guessed)
	tg, tok := positionGroup(target)
	if gok && tok && gg == tg {
		fb.Status = StatusPartial
	}
	return fb
}

// Position listings combine tokens, e.g. "Guard-Forward" or "F-C". Each
// token maps to one broad group; when a listing spans several groups, guard
// wins over forward, forward over center.
var positionGroups = []struct {
	name   string
	tokens map[string]bool
}{
	{"guard", map[string]bool{"PG": true, "SG": true, "G": true, "GUARD": true}},
	{"forward", map[string]bool{"SF": true, "PF": true, "F": true, "FORWARD": true}},
	{"center", map[string]bool{"C": true, "CENTER": true}},
}

// positionGroup classifies a raw position listing into guard, forward, or
// center. Tokens are split on dashes, slashes, and spaces and matched
// whole: a "C" counts as center only when it stands alone, not inside
// another word.
func positionGroup(pos string) (string, bool) {
	tokens := strings.FieldsFunc(strings.ToUpper(pos), func(r rune) bool {
		return r == '-' || r == '/' || r == ' '
	})
	for _, g := range positionGroups {
		for _, t := range tokens {
			if g.tokens[t] {
				return g.name, true
			}
		}
	}
	return "", false
}

// comparePPG never reports "incorrect": a missing PPG is recorded as 0.0
// upstream, so the comparison is always correct or directional.
func comparePPG(guessed, target float64) Feedback {
	fb := Feedback{Attribute: "ppg", Guessed: guessed, Target: target}
	switch {
	case guessed == target:
		fb.Status = StatusCorrect
	case guessed < target:
		fb.Status = StatusHigher
	default:
		fb.Status = StatusLower
	}
	return fb
}
