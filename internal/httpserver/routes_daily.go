// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes four endpoints under /api/daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 winners for today (or a given date)
//   - GET  /daily/verify      → validate a share receipt token
//
// Each anonymous player can play once per day (enforced by DB + in-memory
// session). Sessions are held in memory for active play and persisted to
// the DB when they finish. The target is deterministic: date + salt index
// into the name-ordered pool, so every instance serves the same player of
// the day. Daily play resolves guesses from the snapshot only — no stats
// API calls, identical values for everyone.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/daily"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/metrics"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by playerKey|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID      string
	PlayerKey   string
	Date        string
	PlayerIndex int
	Session     *game.Session
	Start       time.Time
	Recorded    bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
		r.Get("/verify", dd.handleVerify)
	})
}

// todayTarget returns today's date key, deterministic pool index, and the
// snapshot record of the player of the day.
func (d *dailyServer) todayTarget() (date string, idx int, target game.Player, ok bool) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	idx = daily.PlayerIndex(now, d.salt, d.srv.roster.Size())
	target, ok = d.srv.roster.ByIndex(idx)
	return date, idx, target, ok
}

// pruneStale drops sessions from previous dates. Called under d.mu.
func (d *dailyServer) pruneStale(today string) {
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"game_id"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	key := d.srv.ensureAnonID(w, r)
	date, idx, target, ok := d.todayTarget()
	if !ok {
		writeErr(w, http.StatusServiceUnavailable, "player pool is empty")
		return
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), key, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: "", Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	mapKey := key + "|" + date
	d.mu.Lock()
	d.pruneStale(date)
	if sess, ok := d.sessions[mapKey]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
		return
	}
	sess := &dailySession{
		GameID:      uuid.NewString(),
		PlayerKey:   key,
		Date:        date,
		PlayerIndex: idx,
		Session:     game.NewSession(uuid.NewString(), target, d.srv.season),
		Start:       time.Now(),
	}
	d.sessions[mapKey] = sess
	d.mu.Unlock()

	metrics.RecordGameStarted()
	log.Info().Str("date", date).Int("index", idx).Msg("daily game started")

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID   string `json:"game_id"`
	PlayerID int    `json:"player_id"`
}

// dailyGuessRes extends the regular guess response with the date and, once
// the game finishes, a signed share receipt.
type dailyGuessRes struct {
	GuessedPlayer game.GuessedPlayer `json:"guessed_player"`
	Comparison    game.Comparison    `json:"comparison"`
	IsCorrect     bool               `json:"is_correct"`
	GuessNumber   int                `json:"guess_number"`
	IsGameOver    bool               `json:"is_game_over"`
	IsWon         bool               `json:"is_won"`
	Date          string             `json:"date"`
	ShareToken    string             `json:"share_token,omitempty"`
}

// handleGuess validates and applies a guess for today's daily session.
// - Ensures a live session matching the supplied game ID.
// - Resolves the guessed player from the snapshot (never the stats API).
// - Applies engine rules: duplicates and finished games are 400s.
// - Persists the result once the session turns terminal.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	key := d.srv.ensureAnonID(w, r)

	var req dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" || req.PlayerID == 0 {
		writeErr(w, http.StatusBadRequest, "game_id and player_id are required")
		return
	}

	date := daily.DateKey(time.Now().UTC())
	d.mu.Lock()
	sess, ok := d.sessions[key+"|"+date]
	d.mu.Unlock()
	if !ok || sess.GameID != req.GameID {
		writeErr(w, http.StatusConflict, "no active daily session")
		return
	}
	if sess.Session.IsGameOver() {
		writeErr(w, http.StatusBadRequest, "game is already over")
		return
	}

	guessed, ok := d.srv.roster.Lookup(req.PlayerID)
	if !ok {
		writeErr(w, http.StatusBadRequest, "unknown player")
		return
	}

	rec, err := sess.Session.Submit(guessed)
	if err != nil {
		if errors.Is(err, game.ErrDuplicateGuess) {
			metrics.RecordDuplicateGuess()
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	over := sess.Session.IsGameOver()
	metrics.RecordGuess()
	switch {
	case rec.IsCorrect:
		metrics.RecordGameWon()
	case over:
		metrics.RecordGameLost()
	}

	res := dailyGuessRes{
		GuessedPlayer: rec.Player,
		Comparison:    rec.Comparison,
		IsCorrect:     rec.IsCorrect,
		GuessNumber:   rec.GuessNumber,
		IsGameOver:    over,
		IsWon:         rec.IsCorrect,
		Date:          date,
	}

	// Persist once and hand out the share receipt.
	if over && !sess.Recorded {
		sess.Recorded = true
		elapsed := int(time.Since(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			PlayerKey:   key,
			Date:        date,
			PlayerIndex: sess.PlayerIndex,
			Guesses:     sess.Session.GuessCount(),
			Won:         rec.IsCorrect,
			ElapsedMs:   elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("insert daily result")
		}
		if tok, err := signShareReceipt(date, sess.Session.GuessCount(), rec.IsCorrect); err == nil {
			res.ShareToken = tok
		} else {
			log.Warn().Err(err).Msg("sign share receipt")
		}
	}

	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the winners for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard query")
		writeErr(w, http.StatusInternalServerError, "server error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

// -----------------------------------------------------------------------------
// /daily/verify

// verifyRes is returned by /daily/verify.
type verifyRes struct {
	Valid   bool   `json:"valid"`
	Date    string `json:"date,omitempty"`
	Guesses int    `json:"guesses,omitempty"`
	Won     bool   `json:"won,omitempty"`
}

// handleVerify checks a share receipt so posted results can be trusted.
func (d *dailyServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		writeErr(w, http.StatusBadRequest, "token is required")
		return
	}
	date, guesses, won, err := parseShareReceipt(tok)
	if err != nil {
		_ = json.NewEncoder(w).Encode(verifyRes{Valid: false})
		return
	}
	_ = json.NewEncoder(w).Encode(verifyRes{Valid: true, Date: date, Guesses: guesses, Won: won})
}
