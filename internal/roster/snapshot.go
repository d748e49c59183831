// apps/go-server/internal/roster/snapshot.go
//
// Roster snapshot loading for the game engine.
//
// Responsibilities:
//   - Parse the cache file produced by cmd/rostersnap: a last_updated
//     stamp plus a map of player records keyed by stringified ID.
//   - Fall back to a small embedded default so the server boots with
//     no cache configured.
//
// Initialization behavior (LoadSnapshot):
//   1. If ROSTER_FILE is set, load the snapshot from that path.
//   2. Otherwise, fall back to the embedded default in assets/players.json.
//
// Environment variables:
//   ROSTER_FILE=/path/to/players.json
//
// Constraints:
//   • A snapshot with zero usable players is an error, not an empty game.
//   • Records missing an id field inherit it from their map key.

package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/robalobadob/hoopdle/apps/go-server/assets"
	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
)

// Snapshot is the on-disk roster cache format.
type Snapshot struct {
	LastUpdated string                 `json:"last_updated"`
	Players     map[string]game.Player `json:"players"`
}

// ParseSnapshot decodes and normalizes a snapshot document.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("roster: parse snapshot: %w", err)
	}

	for key, p := range snap.Players {
		if p.ID == 0 {
			n, err := strconv.Atoi(key)
			if err != nil || n <= 0 {
				delete(snap.Players, key)
				continue
			}
			p.ID = n
			snap.Players[key] = p
		}
	}

	if len(snap.Players) == 0 {
		return nil, errors.New("roster: snapshot has no players")
	}
	return &snap, nil
}

// LoadSnapshot reads the roster cache from ROSTER_FILE, or the embedded
// default when the variable is unset.
func LoadSnapshot() (*Snapshot, error) {
	if path := os.Getenv("ROSTER_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("roster: read %s: %w", path, err)
		}
		return ParseSnapshot(data)
	}

	data, err := assets.DefaultRoster()
	if err != nil {
		return nil, fmt.Errorf("roster: embedded default: %w", err)
	}
	return ParseSnapshot(data)
}
