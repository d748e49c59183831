// apps/go-server/internal/httpserver/routes_game.go
//
// HTTP handlers for the core game endpoints under /api:
//   - POST /start-game           → create a session against a random target
//   - POST /guess                → resolve a player and apply the guess
//   - GET  /game-state/{gameID}  → full session snapshot
//   - GET  /player-search        → name search over the candidate pool
//
// Target and guess resolution run under retry policies: transient stats
// API failures are retried with linear backoff and only then become 503.
// Engine rejections (duplicate guess, finished game) are 400s and never
// retried.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/metrics"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/store"
)

// unavailableMsg is returned once a retry budget is spent on upstream errors.
const unavailableMsg = "NBA API is currently unavailable. Please try again in a moment."

// startGameReq is the optional request body for POST /start-game.
// PlayerID pins the target instead of drawing one; it exists for scripted
// play and tests, the client never sends it.
type startGameReq struct {
	PlayerID *int `json:"player_id"`
}

type startGameRes struct {
	GameID  string `json:"game_id"`
	Message string `json:"message"`
}

// handleStartGame draws (or pins) a target, creates a session, and persists
// a DB owner row for history.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameReq
	_ = json.NewDecoder(r.Body).Decode(&req) // body is optional

	var target game.Player
	err := s.startRetry.Do(r.Context(), func() error {
		var rerr error
		if req.PlayerID != nil {
			target, rerr = s.roster.Resolve(r.Context(), *req.PlayerID)
		} else {
			target, rerr = s.roster.Random(r.Context())
		}
		return rerr
	})
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			writeErr(w, http.StatusBadRequest, "unknown player")
			return
		}
		metrics.RecordRosterUpstreamError()
		log.Error().Err(err).Msg("start game: target resolution failed")
		writeErr(w, http.StatusServiceUnavailable, unavailableMsg)
		return
	}

	sess := game.NewSession(uuid.NewString(), target, s.season)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "save failed")
		return
	}

	metrics.RecordGameStarted()
	log.Info().Str("gameId", sess.ID()).Str("season", s.season).Msg("game started")

	s.insertGameRow(w, r, sess)

	_ = json.NewEncoder(w).Encode(startGameRes{
		GameID:  sess.ID(),
		Message: "Game started! Guess the NBA player.",
	})
}

// guessReq is the request payload for POST /guess.
type guessReq struct {
	GameID   string `json:"game_id"`
	PlayerID int    `json:"player_id"`
}

// guessRes mirrors the recorded guess plus terminal flags. IsWon reports
// whether THIS guess won the game, which equals IsCorrect.
type guessRes struct {
	GuessedPlayer game.GuessedPlayer `json:"guessed_player"`
	Comparison    game.Comparison    `json:"comparison"`
	IsCorrect     bool               `json:"is_correct"`
	GuessNumber   int                `json:"guess_number"`
	IsGameOver    bool               `json:"is_game_over"`
	IsWon         bool               `json:"is_won"`
}

// handleGuess resolves the guessed player and applies it to the session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" || req.PlayerID == 0 {
		writeErr(w, http.StatusBadRequest, "game_id and player_id are required")
		return
	}

	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "game not found")
		return
	}
	if sess.IsGameOver() {
		writeErr(w, http.StatusBadRequest, "game is already over")
		return
	}

	var guessed game.Player
	err = s.guessRetry.Do(r.Context(), func() error {
		var rerr error
		guessed, rerr = s.roster.Resolve(r.Context(), req.PlayerID)
		return rerr
	})
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			writeErr(w, http.StatusBadRequest, "unknown player")
			return
		}
		metrics.RecordRosterUpstreamError()
		log.Error().Err(err).Int("playerId", req.PlayerID).Msg("guess: player resolution failed")
		writeErr(w, http.StatusServiceUnavailable, unavailableMsg)
		return
	}

	rec, err := sess.Submit(guessed)
	if err != nil {
		if errors.Is(err, game.ErrDuplicateGuess) {
			metrics.RecordDuplicateGuess()
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "save failed")
		return
	}

	over := sess.IsGameOver()
	metrics.RecordGuess()
	switch {
	case rec.IsCorrect:
		metrics.RecordGameWon()
	case over:
		metrics.RecordGameLost()
	}

	s.recordGuessRow(r, sess, rec, over)

	_ = json.NewEncoder(w).Encode(guessRes{
		GuessedPlayer: rec.Player,
		Comparison:    rec.Comparison,
		IsCorrect:     rec.IsCorrect,
		GuessNumber:   rec.GuessNumber,
		IsGameOver:    over,
		IsWon:         rec.IsCorrect,
	})
}

// handleGameState returns the full session snapshot.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "game not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, "store error")
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// handlePlayerSearch answers name queries from the pool snapshot. Short
// queries return an empty list rather than an error.
func (s *Server) handlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	_ = json.NewEncoder(w).Encode(s.roster.Search(q, limit))
}

// ------------------------------ persistence --------------------------------

// insertGameRow persists the owner row for a new game (best effort).
func (s *Server) insertGameRow(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	if s.db == nil {
		return
	}
	anon := s.ensureAnonID(w, r)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, season, target_id, status, guesses, started_at)
	                     VALUES (?,?,?,?,?,0,?)`, sess.ID(), anon, s.season, sess.Target().ID, "playing", now)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID()).Msg("insert game row")
	}
}

// recordGuessRow bumps the guess counter and closes the row when the game
// finishes (best effort, non-fatal if it fails).
func (s *Server) recordGuessRow(r *http.Request, sess *game.Session, rec game.Guess, over bool) {
	if s.db == nil {
		return
	}
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin guess tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=?`, sess.ID()); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if over {
		status := "lost"
		if rec.IsCorrect {
			status = "won"
		}
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`,
			status, time.Now().UTC().Format(time.RFC3339), sess.ID()); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
	}
	_ = tx.Commit()
}
