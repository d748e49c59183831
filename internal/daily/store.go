package daily

import (
	"context"
	"database/sql"
)

// Result is one finished daily run. PlayerKey is the anonymous cookie ID,
// PlayerIndex the pool index the date mapped onto.
type Result struct {
	PlayerKey   string `json:"player_key"`
	Date        string `json:"date"`
	PlayerIndex int    `json:"player_index"`
	Guesses     int    `json:"guesses"`
	Won         bool   `json:"won"`
	ElapsedMs   int    `json:"elapsed_ms"`
}

// Store persists daily results. A nil db degrades to a no-op store so the
// daily routes stay playable without persistence: replays are not blocked
// and the leaderboard is empty.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, playerKey, date string) (bool, error) {
	if s.db == nil {
		return false, nil
	}
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player_key=? AND date=?",
		playerKey, date,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *Store) InsertResult(ctx context.Context, r Result) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_key, date, player_index, guesses, won, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`, r.PlayerKey, r.Date, r.PlayerIndex, r.Guesses, r.Won, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	PlayerKey string `json:"player_key"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsed_ms"`
}

// Leaderboard lists the day's winners, fewest guesses first, ties broken
// by time then arrival.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if s.db == nil {
		return []LBRow{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_key, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY guesses ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerKey, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
