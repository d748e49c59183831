// apps/go-server/cmd/rostersnap/main.go
//
// rostersnap rebuilds assets/players.json from the NBA stats API.
// It walks the current-season player index, fetches full details for each
// player (bio, team, scoring average) and writes the result as a snapshot
// the server can embed or load via ROSTER_FILE.
//
// The stats API rate-limits aggressively; -delay spaces out requests.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster/statsapi"
)

func main() {
	base := flag.String("base", statsapi.DefaultBaseURL, "stats API base URL")
	season := flag.String("season", "2025-26", "season to snapshot (e.g. 2025-26)")
	out := flag.String("o", "assets/players.json", "output path")
	delay := flag.Duration("delay", 500*time.Millisecond, "pause between player detail requests")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx := context.Background()
	client := statsapi.New(*base)

	listing, err := client.Players(ctx, *season)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list players")
	}
	log.Info().Int("players", len(listing)).Str("season", *season).Msg("fetched player index")

	players := make(map[string]game.Player, len(listing))
	for i, l := range listing {
		if i > 0 {
			time.Sleep(*delay)
		}
		p, err := client.PlayerDetails(ctx, l.ID, *season)
		if err != nil {
			log.Warn().Err(err).Int("id", l.ID).Str("name", l.Name).Msg("skipping player")
			continue
		}
		players[strconv.Itoa(p.ID)] = p
		if (i+1)%10 == 0 {
			log.Info().Int("done", i+1).Int("total", len(listing)).Msg("progress")
		}
	}
	if len(players) == 0 {
		log.Fatal().Msg("no players fetched, refusing to write empty snapshot")
	}

	snap := roster.Snapshot{
		LastUpdated: time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
		Players:     players,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode snapshot")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("failed to write snapshot")
	}
	log.Info().Str("path", *out).Int("players", len(players)).Msg("snapshot written")
}
