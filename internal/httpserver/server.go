// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Hoopdle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     per-route Prometheus counters).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints under /api: POST /start-game, POST /guess,
//     GET /game-state/{gameID}, GET /player-search.
//   - Daily Challenge endpoints: mounted under /api/daily.
//   - Anonymous session cookie for daily play and game history rows.
//   - Best-effort database persistence for games (nil db skips it).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Target and guess resolution go through per-route retry policies;
//     transient stats API failures surface as 503 only after the
//     budget is spent.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/metrics"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/retry"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster/statsapi"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/store"
)

// Server bundles router, session store, roster provider, and DB handle.
type Server struct {
	r      *chi.Mux
	store  store.Store
	roster *roster.Service
	db     *sql.DB
	season string

	startRetry retry.Policy // target resolution on game start
	guessRetry retry.Policy // guess resolution
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil; persistence of game rows and daily results is skipped.
func New(st store.Store, ros *roster.Service, db *sql.DB) *Server {
	step := time.Duration(envInt("RETRY_BACKOFF_MS", 2000)) * time.Millisecond
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		roster: ros,
		db:     db,
		season: ros.Season(),
		startRetry: retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Linear(step), // 2s, 4s between tries
			Retryable:   statsapi.Transient,
		},
		guessRetry: retry.Policy{
			MaxAttempts: 2,
			Backoff:     retry.Linear(step),
			Retryable:   statsapi.Transient,
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time (retries included)
	s.r.Use(metricsMiddleware)               // per-route request counters
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hoopdle-go","status":"running","endpoints":["/health","/metrics","POST /api/start-game","POST /api/guess","GET /api/game-state/{gameID}","GET /api/player-search","/api/daily/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	s.r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Game endpoints
	s.r.Route("/api", func(r chi.Router) {
		r.Post("/start-game", s.handleStartGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/game-state/{gameID}", s.handleGameState)
		r.Get("/player-search", s.handlePlayerSearch)

		// Daily Challenge
		s.mountDaily(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the response code for the metrics middleware.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request counts and latency per route pattern.
// The pattern is read after the handler runs, once chi has matched it.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		endpoint := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		status := strconv.Itoa(sw.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))
	})
}

// ---------------------------- anon identity --------------------------------

const anonCookieName = "hoopdle_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to key daily results and guest game history.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ------------------------------- small util --------------------------------

// writeErr sends a JSON error body with the given status. http.Error is
// avoided on purpose: it rewrites Content-Type to text/plain.
func writeErr(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt returns the integer value of k or def if unset/invalid.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
