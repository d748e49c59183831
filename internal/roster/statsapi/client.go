// apps/go-server/internal/roster/statsapi/client.go
//
// Thin HTTP client for the public NBA stats API (stats.nba.com).
// Responsibilities:
//   - Fetch the active-player listing for a season (commonallplayers).
//   - Fetch full player details: bio, age from birthdate, jersey,
//     scoring average from the game log, and the team's division and
//     conference (commonplayerinfo + playergamelog + teaminfocommon).
//   - Memoize per-team division/conference lookups; a roster of ~450
//     players maps onto 30 teams.
//   - Classify errors so callers can decide what is worth retrying.
//
// Every endpoint answers the same envelope: a list of resultSets, each
// a header row plus rows of mixed strings and numbers. The table helper
// below resolves columns by name so header order changes stay harmless.

package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production stats host.
const DefaultBaseURL = "https://stats.nba.com/stats"

// headshotURL is the CDN pattern for player portraits.
const headshotURL = "https://cdn.nba.com/headshots/nba/latest/1040x760/%d.png"

// Client talks to the stats API. Safe for concurrent use.
type Client struct {
	base string
	http *http.Client

	mu    sync.Mutex
	teams map[int64]teamInfo // division/conference memo, keyed by team ID

	now func() time.Time // test hook for age computation
}

// teamInfo caches the only two team fields the game compares on. A failed
// lookup is cached as empty strings so one bad team does not re-fire a
// request per player.
type teamInfo struct {
	Division   string
	Conference string
}

// Listing is one row of the season-wide active player index.
type Listing struct {
	ID               int
	Name             string
	TeamID           int64
	TeamAbbreviation string
}

// New builds a client against base, or the production host when base is
// empty.
func New(base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 30 * time.Second},
		teams: make(map[int64]teamInfo),
		now:   time.Now,
	}
}

// Players fetches the active-player listing for the season.
func (c *Client) Players(ctx context.Context, season string) ([]Listing, error) {
	params := url.Values{
		"IsOnlyCurrentSeason": {"1"},
		"LeagueID":            {"00"},
		"Season":              {season},
	}
	tab, err := c.fetch(ctx, "commonallplayers", params)
	if err != nil {
		return nil, fmt.Errorf("player listing: %w", err)
	}

	out := make([]Listing, 0, len(tab.rows))
	for i := range tab.rows {
		id, ok := tab.num(i, "PERSON_ID")
		if !ok {
			continue
		}
		teamID, _ := tab.num(i, "TEAM_ID")
		out = append(out, Listing{
			ID:               int(id),
			Name:             tab.str(i, "DISPLAY_FIRST_LAST"),
			TeamID:           int64(teamID),
			TeamAbbreviation: tab.str(i, "TEAM_ABBREVIATION"),
		})
	}
	return out, nil
}

// PlayerDetails assembles the full comparable record for one player.
// The bio and team lookups are required; a failed or empty game log only
// zeroes the scoring average, matching how a player with no games shows up.
func (c *Client) PlayerDetails(ctx context.Context, playerID int, season string) (game.Player, error) {
	tab, err := c.fetch(ctx, "commonplayerinfo", url.Values{"PlayerID": {strconv.Itoa(playerID)}})
	if err != nil {
		return game.Player{}, fmt.Errorf("player %d bio: %w", playerID, err)
	}
	if len(tab.rows) == 0 {
		return game.Player{}, fmt.Errorf("player %d: no bio rows", playerID)
	}

	teamID, _ := tab.num(0, "TEAM_ID")
	teamName := tab.str(0, "TEAM_NAME")
	abbrev := tab.str(0, "TEAM_ABBREVIATION")
	if teamName == "" {
		if abbrev != "" {
			teamName = abbrev
		} else {
			teamName = "Free Agent"
		}
	}

	p := game.Player{
		ID:               playerID,
		Name:             tab.str(0, "DISPLAY_FIRST_LAST"),
		Team:             teamName,
		TeamAbbreviation: abbrev,
		Age:              c.ageFromBirthdate(tab.str(0, "BIRTHDATE")),
		Height:           tab.str(0, "HEIGHT"),
		Position:         tab.str(0, "POSITION"),
		JerseyNumber:     jerseyNumber(tab.str(0, "JERSEY")),
		ImageURL:         fmt.Sprintf(headshotURL, playerID),
		Season:           season,
	}

	if int64(teamID) != 0 {
		info := c.team(ctx, int64(teamID))
		p.Division = info.Division
		p.Conference = info.Conference
	}

	ppg, err := c.scoringAverage(ctx, playerID, season)
	if err != nil {
		log.Warn().Err(err).Int("player_id", playerID).Msg("game log unavailable, ppg defaults to 0")
		ppg = 0
	}
	p.PPG = ppg

	return p, nil
}

// team returns the division/conference pair for a team, memoized.
// A lookup failure is logged and cached as empty strings so one bad team
// does not stall a whole roster build; those fields simply compare as
// incorrect until the cache is rebuilt.
func (c *Client) team(ctx context.Context, teamID int64) teamInfo {
	c.mu.Lock()
	if info, ok := c.teams[teamID]; ok {
		c.mu.Unlock()
		return info
	}
	c.mu.Unlock()

	params := url.Values{
		"TeamID":   {strconv.FormatInt(teamID, 10)},
		"LeagueID": {"00"},
	}
	tab, err := c.fetch(ctx, "teaminfocommon", params)

	var info teamInfo
	switch {
	case err != nil:
		log.Warn().Err(err).Int64("team_id", teamID).Msg("team info unavailable")
	case len(tab.rows) > 0:
		info = teamInfo{
			Division:   tab.str(0, "TEAM_DIVISION"),
			Conference: tab.str(0, "TEAM_CONFERENCE"),
		}
	}

	c.mu.Lock()
	c.teams[teamID] = info
	c.mu.Unlock()
	return info
}

// scoringAverage means the PTS column of the season game log, rounded to
// one decimal. No games played is 0, not an error.
func (c *Client) scoringAverage(ctx context.Context, playerID int, season string) (float64, error) {
	params := url.Values{
		"PlayerID":   {strconv.Itoa(playerID)},
		"Season":     {season},
		"SeasonType": {"Regular Season"},
	}
	tab, err := c.fetch(ctx, "playergamelog", params)
	if err != nil {
		return 0, err
	}
	if len(tab.rows) == 0 {
		return 0, nil
	}

	var sum float64
	var n int
	for i := range tab.rows {
		if pts, ok := tab.num(i, "PTS"); ok {
			sum += pts
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return math.Round(sum/float64(n)*10) / 10, nil
}

// ageFromBirthdate converts "1984-12-30T00:00:00" into whole years at the
// current date, or nil when the field is missing or malformed.
func (c *Client) ageFromBirthdate(birthdate string) *int {
	if birthdate == "" {
		return nil
	}
	datePart, _, _ := strings.Cut(birthdate, "T")
	born, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return nil
	}

	now := c.now()
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return &age
}

// jerseyNumber parses the JERSEY field, which the API serves as a string
// and leaves blank for players without an assigned number.
func jerseyNumber(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// --- wire format ---

// payload is the envelope every stats endpoint answers with.
type payload struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// table resolves columns by header name over the first result set.
type table struct {
	idx  map[string]int
	rows [][]any
}

func newTable(rs resultSet) table {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	return table{idx: idx, rows: rs.RowSet}
}

// str returns the cell as a string, or "" for missing columns and nulls.
func (t table) str(row int, col string) string {
	i, ok := t.idx[col]
	if !ok || i >= len(t.rows[row]) {
		return ""
	}
	s, _ := t.rows[row][i].(string)
	return s
}

// num returns the cell as a number; JSON numbers decode as float64.
func (t table) num(row int, col string) (float64, bool) {
	i, ok := t.idx[col]
	if !ok || i >= len(t.rows[row]) {
		return 0, false
	}
	f, ok := t.rows[row][i].(float64)
	return f, ok
}

// fetch issues one GET and returns the first result set as a table.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (table, error) {
	u := c.base + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return table{}, err
	}

	// The stats host rejects bare clients; these mirror what a browser
	// on nba.com sends.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Referer", "https://stats.nba.com/")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	res, err := c.http.Do(req)
	if err != nil {
		return table{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return table{}, &StatusError{Code: res.StatusCode, Endpoint: endpoint}
	}

	var body payload
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return table{}, fmt.Errorf("%s: decode: %w", endpoint, err)
	}
	if len(body.ResultSets) == 0 {
		return table{}, fmt.Errorf("%s: empty response", endpoint)
	}
	return newTable(body.ResultSets[0]), nil
}

// --- error classification ---

// StatusError is a non-200 answer from the stats host.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats api %s: status %d", e.Endpoint, e.Code)
}

// Transient reports whether an error is a temporary upstream condition:
// server errors, throttling, timeouts, and transport failures. Anything
// else (bad request, missing player) will not improve on retry.
func Transient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
