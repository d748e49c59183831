package main

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/httpserver"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/metrics"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster/statsapi"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	snap, err := roster.LoadSnapshot()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load roster snapshot")
	}

	season := getEnv("SEASON", "2025-26")
	var client *statsapi.Client
	if getEnv("STATS_API_DISABLED", "") == "" {
		client = statsapi.New(getEnv("STATS_API_BASE", statsapi.DefaultBaseURL))
	}
	ros := roster.NewService(snap, season, client)
	metrics.UpdateRosterPlayers(ros.Size())
	log.Info().Int("players", ros.Size()).Str("season", season).
		Str("snapshot", ros.LastUpdated()).Msg("roster loaded")

	// SQLite is optional: without it the server still plays games, it just
	// skips audit rows, daily results and leaderboards.
	db := openOptionalDB()

	mem := store.NewMemoryStore()
	go sweepSessions(mem)

	srv := httpserver.New(mem, ros, db)
	port := getEnv("PORT", "8000")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func openOptionalDB() *sql.DB {
	dsn := getEnv("DB_PATH", "./data/hoopdle.db")
	db, err := openDB(dsn)
	if err != nil {
		log.Warn().Err(err).Str("path", dsn).Msg("db unavailable, continuing without persistence")
		return nil
	}
	if err := migrate(db); err != nil {
		log.Warn().Err(err).Msg("migrations failed, continuing without persistence")
		_ = db.Close()
		return nil
	}
	return db
}

// sweepSessions evicts in-memory games idle longer than SESSION_MAX_AGE_HOURS.
func sweepSessions(mem *store.Memory) {
	maxAge := time.Duration(envInt("SESSION_MAX_AGE_HOURS", 24)) * time.Hour
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for range t.C {
		if n := mem.SweepIdle(maxAge); n > 0 {
			log.Info().Int("evicted", n).Msg("swept idle sessions")
		}
		metrics.UpdateActiveSessions(mem.Len())
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" { return v }
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil { return n }
	}
	return def
}
