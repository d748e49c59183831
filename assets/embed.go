package assets

import "embed"

//go:embed players.json
var FS embed.FS

// DefaultRoster returns the embedded roster snapshot, a small slice of the
// league that keeps the server bootable with no cache file configured.
func DefaultRoster() ([]byte, error) {
	return FS.ReadFile("players.json")
}
