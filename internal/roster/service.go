// apps/go-server/internal/roster/service.go
//
// Candidate pool for the game engine.
//
// Responsibilities:
//   - Hold the season's player pool loaded from a snapshot, immutable
//     after construction.
//   - Resolve a player ID into a full record: straight from the
//     snapshot, or refreshed from the stats API when a client is set.
//   - Pick a random target, search by name, and expose a stable
//     name-ordered index for the daily challenge.
//
// Resolution semantics:
//   - Pool membership is decided by the snapshot alone; an ID outside
//     the pool is ErrNotFound even if the stats API knows it.
//   - With a live client, upstream failures propagate so callers can
//     retry; without one, the snapshot record is authoritative.

package roster

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/roster/statsapi"
)

// ErrNotFound is returned when a player ID is not part of the pool.
var ErrNotFound = errors.New("player not found")

// searchLimit caps how many rows a name search returns.
const searchLimit = 20

// Summary is the compact search result row.
type Summary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"` // abbreviation, matching what pickers render
	ImageURL string `json:"image_url"`
}

// Service serves the candidate pool. Safe for concurrent use: the pool is
// never mutated after construction and the client keeps its own locks.
type Service struct {
	players map[int]game.Player
	sorted  []game.Player // name-ordered view for search and daily indexing
	season  string
	updated string
	client  *statsapi.Client
}

// NewService builds the pool from a parsed snapshot. A nil client pins
// every resolution to the snapshot, which is what tests and offline runs
// want; production passes a live client for fresh details.
func NewService(snap *Snapshot, season string, client *statsapi.Client) *Service {
	players := make(map[int]game.Player, len(snap.Players))
	sorted := make([]game.Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		players[p.ID] = p
		sorted = append(sorted, p)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	return &Service{
		players: players,
		sorted:  sorted,
		season:  season,
		updated: snap.LastUpdated,
		client:  client,
	}
}

// Resolve returns the full record for a pool member.
func (s *Service) Resolve(ctx context.Context, id int) (game.Player, error) {
	snap, ok := s.players[id]
	if !ok {
		return game.Player{}, ErrNotFound
	}
	if s.client == nil {
		return clonePlayer(snap), nil
	}

	p, err := s.client.PlayerDetails(ctx, id, s.season)
	if err != nil {
		return game.Player{}, fmt.Errorf("player %d details: %w", id, err)
	}
	return p, nil
}

// Random picks a uniformly random pool member and resolves it.
func (s *Service) Random(ctx context.Context) (game.Player, error) {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(s.sorted))))
	return s.Resolve(ctx, s.sorted[nBig.Int64()].ID)
}

// Search returns up to limit pool members whose names contain q,
// case-insensitively, in name order. Queries under two characters return
// nothing; limits outside 1..20 fall back to 20.
func (s *Service) Search(q string, limit int) []Summary {
	out := []Summary{}
	q = strings.ToLower(strings.TrimSpace(q))
	if len(q) < 2 {
		return out
	}
	if limit <= 0 || limit > searchLimit {
		limit = searchLimit
	}

	for _, p := range s.sorted {
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, Summary{
			ID:       p.ID,
			Name:     p.Name,
			Team:     p.TeamAbbreviation,
			ImageURL: p.ImageURL,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// ByIndex returns the i-th player in name order, snapshot values only.
// The ordering is stable for a given snapshot, which is what the daily
// challenge needs to map a date onto the same player everywhere.
func (s *Service) ByIndex(i int) (game.Player, bool) {
	if i < 0 || i >= len(s.sorted) {
		return game.Player{}, false
	}
	return clonePlayer(s.sorted[i]), true
}

// Lookup returns the snapshot record for a pool member without touching
// the stats API. Daily games use it so every player of a given day is
// compared against identical values.
func (s *Service) Lookup(id int) (game.Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return game.Player{}, false
	}
	return clonePlayer(p), true
}

// Size reports how many players are in the pool.
func (s *Service) Size() int { return len(s.sorted) }

// Season returns the season the pool was built for.
func (s *Service) Season() string { return s.season }

// LastUpdated returns the snapshot's build stamp, for logs.
func (s *Service) LastUpdated() string { return s.updated }

func clonePlayer(p game.Player) game.Player {
	if p.Age != nil {
		v := *p.Age
		p.Age = &v
	}
	if p.JerseyNumber != nil {
		v := *p.JerseyNumber
		p.JerseyNumber = &v
	}
	return p
}
