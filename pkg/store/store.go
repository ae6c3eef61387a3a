// Package store owns the SQLite database backing all searchable content:
// boards, posts, comments, teams, players and fixtures. It provides the
// connection with tuned pragmas, schema migrations and a few shared queries;
// feature packages build their own predicates on top of the pooled handle.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies the
// performance pragmas. The returned handle is safe for concurrent use.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle for feature packages and
// migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Match is one fixture row as served to result-row expansion.
type Match struct {
	ID         int64      `json:"id"`
	HomeTeamID int64      `json:"home_team_id"`
	AwayTeamID int64      `json:"away_team_id"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	HomeScore  *int64     `json:"home_score"`
	AwayScore  *int64     `json:"away_score"`
	Status     string     `json:"status"`
	KickoffAt  time.Time  `json:"kickoff_at"`
	LeagueID   *int64     `json:"league_id"`
}

// RecentMatches returns the team's most recent fixtures, newest kickoff
// first. This is the downstream fetch behind the supplementary cache.
func (s *Store) RecentMatches(ctx context.Context, teamID int64, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.home_team_id, m.away_team_id,
		       ht.name, at.name,
		       m.home_score, m.away_score, m.status, m.kickoff_at, m.league_id
		FROM matches m
		JOIN teams ht ON ht.id = m.home_team_id
		JOIN teams at ON at.id = m.away_team_id
		WHERE m.home_team_id = ? OR m.away_team_id = ?
		ORDER BY m.kickoff_at DESC
		LIMIT ?`, teamID, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying matches for team %d: %w", teamID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	var matches []Match
	for rows.Next() {
		var m Match
		var homeScore, awayScore, leagueID sql.NullInt64
		err := rows.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID,
			&m.HomeTeam, &m.AwayTeam,
			&homeScore, &awayScore, &m.Status, &m.KickoffAt, &leagueID)
		if err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		if homeScore.Valid {
			m.HomeScore = &homeScore.Int64
		}
		if awayScore.Valid {
			m.AwayScore = &awayScore.Int64
		}
		if leagueID.Valid {
			m.LeagueID = &leagueID.Int64
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Stats returns row counts per table for the stats surface.
func (s *Store) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	tables := []string{"boards", "posts", "comments", "teams", "players", "matches", "click_events"}
	for _, table := range tables {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		stats[table] = count
	}

	var newestPost sql.NullString
	err := s.db.QueryRow("SELECT MAX(created_at) FROM posts").Scan(&newestPost)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting newest post time: %w", err)
	}
	if newestPost.Valid {
		stats["newest_post"] = newestPost.String
	}

	return stats, nil
}

func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

func (s *Store) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}
