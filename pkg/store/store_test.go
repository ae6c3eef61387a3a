package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	if err := st.Migrate(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return st
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := newTestStore(t)

	if err := st.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	status, err := st.MigrationStatus()
	if err != nil {
		t.Fatalf("reading status: %v", err)
	}
	if len(status.Pending) != 0 {
		t.Errorf("expected no pending migrations, got %d", len(status.Pending))
	}
	if len(status.Applied) == 0 {
		t.Error("expected applied migrations")
	}
	for _, m := range status.Applied {
		if m.AppliedAt == nil {
			t.Errorf("migration %d missing applied timestamp", m.Version)
		}
	}
}

func seedMatches(t *testing.T, st *Store) {
	t.Helper()

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := st.db.Exec(query, args...); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	exec(`INSERT INTO teams (id, name) VALUES (1, 'Tottenham Hotspur')`)
	exec(`INSERT INTO teams (id, name) VALUES (2, 'Arsenal')`)
	exec(`INSERT INTO teams (id, name) VALUES (3, 'Chelsea')`)

	base := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)
	exec(`INSERT INTO matches (id, home_team_id, away_team_id, home_score, away_score, status, kickoff_at)
	      VALUES (1, 1, 2, 2, 1, 'finished', ?)`, base)
	exec(`INSERT INTO matches (id, home_team_id, away_team_id, status, kickoff_at)
	      VALUES (2, 3, 1, 'scheduled', ?)`, base.Add(7*24*time.Hour))
	exec(`INSERT INTO matches (id, home_team_id, away_team_id, status, kickoff_at)
	      VALUES (3, 2, 3, 'scheduled', ?)`, base.Add(24*time.Hour))
}

func TestRecentMatches(t *testing.T) {
	st := newTestStore(t)
	seedMatches(t, st)

	matches, err := st.RecentMatches(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 fixtures for team 1, got %d", len(matches))
	}
	// Newest kickoff first.
	if matches[0].ID != 2 || matches[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", matches[0].ID, matches[1].ID)
	}

	finished := matches[1]
	if finished.HomeTeam != "Tottenham Hotspur" || finished.AwayTeam != "Arsenal" {
		t.Errorf("expected joined team names, got %q vs %q", finished.HomeTeam, finished.AwayTeam)
	}
	if finished.HomeScore == nil || *finished.HomeScore != 2 {
		t.Errorf("unexpected home score: %v", finished.HomeScore)
	}

	scheduled := matches[0]
	if scheduled.HomeScore != nil || scheduled.AwayScore != nil {
		t.Error("scheduled match must have nil scores")
	}
}

func TestRecentMatchesLimit(t *testing.T) {
	st := newTestStore(t)
	seedMatches(t, st)

	matches, err := st.RecentMatches(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected limit applied, got %d", len(matches))
	}
}

func TestRecentMatchesUnknownTeam(t *testing.T) {
	st := newTestStore(t)
	seedMatches(t, st)

	matches, err := st.RecentMatches(context.Background(), 99, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no fixtures, got %d", len(matches))
	}
}

func TestStats(t *testing.T) {
	st := newTestStore(t)
	seedMatches(t, st)

	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats["teams"] != 3 {
		t.Errorf("expected 3 teams, got %v", stats["teams"])
	}
	if stats["matches"] != 3 {
		t.Errorf("expected 3 matches, got %v", stats["matches"])
	}
	if stats["posts"] != 0 {
		t.Errorf("expected 0 posts, got %v", stats["posts"])
	}
}

func TestOptimize(t *testing.T) {
	st := newTestStore(t)

	if err := st.Optimize(); err != nil {
		t.Errorf("optimize failed: %v", err)
	}
	if err := st.WALCheckpoint(); err != nil {
		t.Errorf("checkpoint failed: %v", err)
	}
	if err := st.Vacuum(); err != nil {
		t.Errorf("vacuum failed: %v", err)
	}
}
