// apps/go-server/internal/game/session.go
//
// Single-session state machine for the Hoopdle engine.
// Responsibilities:
//   - Hold the hidden target and the ordered guess history.
//   - Validate and apply guesses: finished games and repeated player IDs
//     are rejected before any comparison runs.
//   - Track state transitions: active → won/exhausted (both terminal).
//   - Produce read-only snapshots for API responses.
//
// Notes:
//   - State is derived from the history on every call rather than stored in
//     flags, so it cannot drift from the guesses that produced it.
//   - A session owns its history exclusively. Everything returned to
//     callers is copied, with optional ints cloned.
//   - All exported methods are safe for concurrent use; one mutex
//     serializes submissions so guess numbers stay dense and ordered.

package game

import (
	"errors"
	"sync"
	"time"
)

// defaultMaxGuesses is the guess budget for every session.
const defaultMaxGuesses = 8

var (
	// ErrGameOver is returned by Submit once a session is won or exhausted.
	ErrGameOver = errors.New("game is already over")

	// ErrDuplicateGuess is returned when the submitted player ID already
	// appears in the history. Identity only: a changed record for the same
	// ID is still a duplicate.
	ErrDuplicateGuess = errors.New("player already guessed")
)

// Session tracks one game against one hidden target player.
type Session struct {
	mu         sync.Mutex
	id         string
	target     Player
	season     string
	createdAt  time.Time
	maxGuesses int
	guesses    []Guess
}

// NewSession wraps an already-resolved target. Picking the target is the
// caller's job; the session never fetches data.
func NewSession(id string, target Player, season string) *Session {
	target.Age = cloneInt(target.Age)
	target.JerseyNumber = cloneInt(target.JerseyNumber)
	return &Session{
		id:         id,
		target:     target,
		season:     season,
		createdAt:  time.Now().UTC(),
		maxGuesses: defaultMaxGuesses,
	}
}

// Submit applies one guess and returns the recorded result.
//
// Order matters: a finished game rejects before the duplicate check, and
// the duplicate check runs before any comparison, so a rejected guess never
// touches the history or burns budget.
func (s *Session) Submit(p Player) (Guess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOverLocked() {
		return Guess{}, ErrGameOver
	}
	for _, g := range s.guesses {
		if g.Player.ID == p.ID {
			return Guess{}, ErrDuplicateGuess
		}
	}

	rec := Guess{
		Player:      sanitize(p),
		Comparison:  Compare(&s.target, &p),
		IsCorrect:   p.ID == s.target.ID,
		GuessNumber: len(s.guesses) + 1,
	}
	s.guesses = append(s.guesses, rec)
	return rec, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Season returns the season tag the session was created with. The engine
// never interprets it; it only travels with the state.
func (s *Session) Season() string { return s.season }

// CreatedAt returns the session creation time (UTC).
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Target returns a copy of the hidden player.
func (s *Session) Target() Player {
	t := s.target
	t.Age = cloneInt(t.Age)
	t.JerseyNumber = cloneInt(t.JerseyNumber)
	return t
}

// IsGameOver reports whether the session is won or out of guesses.
func (s *Session) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOverLocked()
}

// IsWon reports whether the last guess hit the target.
func (s *Session) IsWon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wonLocked()
}

// GuessCount returns the number of accepted guesses so far.
func (s *Session) GuessCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guesses)
}

// MaxGuesses returns the guess budget.
func (s *Session) MaxGuesses() int { return s.maxGuesses }

func (s *Session) gameOverLocked() bool {
	if s.wonLocked() {
		return true
	}
	return len(s.guesses) >= s.maxGuesses
}

func (s *Session) wonLocked() bool {
	n := len(s.guesses)
	return n > 0 && s.guesses[n-1].IsCorrect
}

// State is a read-only projection of a session for API responses.
type State struct {
	TargetPlayerID   int     `json:"target_player_id"`
	TargetPlayerName string  `json:"target_player_name"`
	Season           string  `json:"season"`
	Guesses          []Guess `json:"guesses"`
	GuessCount       int     `json:"guess_count"`
	MaxGuesses       int     `json:"max_guesses"`
	IsGameOver       bool    `json:"is_game_over"`
	IsWon            bool    `json:"is_won"`
}

// Snapshot copies the current state. The returned history is a fresh slice
// with cloned optional values, safe to hold across later submissions.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	guesses := make([]Guess, len(s.guesses))
	for i, g := range s.guesses {
		g.Player.Age = cloneInt(g.Player.Age)
		g.Player.JerseyNumber = cloneInt(g.Player.JerseyNumber)
		guesses[i] = g
	}
	return State{
		TargetPlayerID:   s.target.ID,
		TargetPlayerName: s.target.Name,
		Season:           s.season,
		Guesses:          guesses,
		GuessCount:       len(s.guesses),
		MaxGuesses:       s.maxGuesses,
		IsGameOver:       s.gameOverLocked(),
		IsWon:            s.wonLocked(),
	}
}

// sanitize strips fields that are not compared (abbreviation, image URL,
// season) and clones optional values so the history entry shares nothing
// mutable with the caller.
func sanitize(p Player) GuessedPlayer {
	return GuessedPlayer{
		ID:           p.ID,
		Name:         p.Name,
		Team:         p.Team,
		Division:     p.Division,
		Conference:   p.Conference,
		Age:          cloneInt(p.Age),
		Height:       p.Height,
		Position:     p.Position,
		JerseyNumber: cloneInt(p.JerseyNumber),
		PPG:          p.PPG,
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
