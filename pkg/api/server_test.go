package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matchdayhq/matchday/pkg/analytics"
	"github.com/matchdayhq/matchday/pkg/config"
	"github.com/matchdayhq/matchday/pkg/matchcache"
	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/store"
)

type testEnv struct {
	mux *http.ServeMux
	hub *analytics.Hub
	st  *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
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

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := st.DB().Exec(query, args...); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	exec(`INSERT INTO boards (id, slug, name) VALUES (1, 'free', 'Free Board')`)
	exec(`INSERT INTO users (id, nickname) VALUES (1, 'fan')`)
	exec(`INSERT INTO posts (id, board_id, author_id, title, content, views, likes, hidden, deleted, published, created_at)
	      VALUES (1, 1, 1, 'derby preview', 'big derby weekend', 10, 2, 0, 0, 1, ?)`, base)
	exec(`INSERT INTO comments (id, post_id, author_id, content, likes, hidden, deleted, created_at)
	      VALUES (1, 1, 1, 'derby thoughts', 1, 0, 0, ?)`, base.Add(time.Hour))
	exec(`INSERT INTO teams (id, name, display_name, country, league_id, popularity)
	      VALUES (1, 'Tottenham Hotspur', 'Spurs', 'England', 39, 90)`)
	exec(`INSERT INTO teams (id, name, display_name, country, league_id, popularity)
	      VALUES (2, 'Arsenal', 'Arsenal', 'England', 39, 95)`)
	exec(`INSERT INTO players (id, name, display_name, team_id, position, popularity)
	      VALUES (10, 'Son Heung-min', 'Son Heung-min', 1, 'FW', 100)`)
	exec(`INSERT INTO matches (id, home_team_id, away_team_id, home_score, away_score, status, kickoff_at)
	      VALUES (1, 1, 2, 2, 1, 'finished', ?)`, base.Add(5*time.Hour))

	cfg := &config.Config{
		ListenAddr: ":0",
		Search: config.Search{
			DefaultPageSize:  20,
			MaxPageSize:      100,
			AllowedLeagueIDs: []int64{39},
		},
	}

	searcher := search.NewSearcher(st, search.Rules{AllowedLeagueIDs: []int64{39}})
	fetch := func(ctx context.Context, teamID int64) ([]store.Match, error) {
		return st.RecentMatches(ctx, teamID, 10)
	}
	matches := matchcache.New(fetch, time.Minute, 16)
	hub := analytics.NewHub(4)
	recorder := analytics.NewRecorder(st, hub, 16)
	t.Cleanup(recorder.Close)

	server := NewServer(st, searcher, matches, recorder, hub, cfg)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	return &testEnv{mux: mux, hub: hub, st: st}
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target string, body []byte, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s response: %v\n%s", target, err, rec.Body.String())
		}
	}
	return rec
}

func TestHandleSearch(t *testing.T) {
	env := newTestEnv(t)

	var resp SearchResponse
	rec := doJSON(t, env.mux, "GET", "/api/search?q=derby", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if len(resp.Posts) != 1 || len(resp.Comments) != 1 {
		t.Errorf("expected 1 post and 1 comment, got %d/%d", len(resp.Posts), len(resp.Comments))
	}
	if !resp.CountExact {
		t.Error("expected exact counts by default")
	}
	if resp.TotalCount != 2 {
		t.Errorf("expected total 2, got %d", resp.TotalCount)
	}
}

func TestHandleSearchEmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	var resp SearchResponse
	rec := doJSON(t, env.mux, "GET", "/api/search", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty query must not error, got %d", rec.Code)
	}
	if resp.TotalCount != 0 {
		t.Errorf("expected empty envelope, got total %d", resp.TotalCount)
	}
	// Arrays encode as [], not null.
	if !strings.Contains(rec.Body.String(), `"posts":[]`) {
		t.Errorf("expected empty array in body: %s", rec.Body.String())
	}
}

func TestHandleSearchSkipCount(t *testing.T) {
	env := newTestEnv(t)

	var resp SearchResponse
	doJSON(t, env.mux, "GET", "/api/search?q=derby&skip_count=true", nil, &resp)

	if resp.CountExact {
		t.Error("skip_count responses must not claim exact counts")
	}
}

func TestHandleMentions(t *testing.T) {
	env := newTestEnv(t)

	var resp MentionsResponse
	rec := doJSON(t, env.mux, "GET", "/api/search/mentions?q=son&kind=player", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected one mention, got %d", resp.Count)
	}
	if resp.Results[0].Kind != search.MentionPlayer || resp.Results[0].ID != 10 {
		t.Errorf("unexpected mention: %+v", resp.Results[0])
	}
}

func TestHandleTeamMatches(t *testing.T) {
	env := newTestEnv(t)

	var resp TeamMatchesResponse
	rec := doJSON(t, env.mux, "GET", "/api/teams/1/matches", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if resp.TeamID != 1 || len(resp.Matches) != 1 {
		t.Fatalf("expected one fixture for team 1, got %+v", resp)
	}
	if resp.Cached {
		t.Error("first request must miss the cache")
	}

	doJSON(t, env.mux, "GET", "/api/teams/1/matches", nil, &resp)
	if !resp.Cached {
		t.Error("second request must hit the cache")
	}
}

func TestHandleTeamMatchesBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.mux, "GET", "/api/teams/abc/matches", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestHandleClick(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(ClickRequest{Query: "derby", ResultKind: "post", ResultID: 1})
	rec := doJSON(t, env.mux, "POST", "/api/clicks", body, nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, env.mux, "POST", "/api/clicks", []byte(`{"query":"x"}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)

	var resp HealthResponse
	rec := doJSON(t, env.mux, "GET", "/health", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if resp.Status != "ok" || resp.Version == "" {
		t.Errorf("unexpected health payload: %+v", resp)
	}
}

func TestHandleStats(t *testing.T) {
	env := newTestEnv(t)

	var stats map[string]interface{}
	rec := doJSON(t, env.mux, "GET", "/api/stats", nil, &stats)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if stats["teams"] != float64(2) {
		t.Errorf("expected 2 teams, got %v", stats["teams"])
	}
}

func TestCorsMiddleware(t *testing.T) {
	env := newTestEnv(t)
	handler := CorsMiddleware(env.mux)

	req := httptest.NewRequest("OPTIONS", "/api/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
}

func TestActivityWebSocket(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/activity/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	// Wait for the handler to register its listener before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket listener never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	env.hub.Broadcast(analytics.ClickEvent{ID: "evt", Query: "derby", ResultKind: "post", ResultID: 1})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}
	var event analytics.ClickEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if event.ID != "evt" || event.ResultKind != "post" {
		t.Errorf("unexpected event: %+v", event)
	}
}
