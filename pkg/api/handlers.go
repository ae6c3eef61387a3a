package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/matchdayhq/matchday/pkg/matchcache"
	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/version"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := search.ParseQuery(r.URL.Query(), s.cfg.Search.DefaultPageSize, s.cfg.Search.MaxPageSize)

	// An empty query is not an error; the router short-circuits to an
	// all-empty envelope without touching the store.
	resp := s.router.Search(r.Context(), q)

	s.writeJSON(w, http.StatusOK, SearchResponse{
		Query:        q.Text,
		Scope:        string(q.Scope),
		Posts:        emptyIfNil(resp.Posts),
		Comments:     emptyIfNil(resp.Comments),
		Teams:        emptyIfNil(resp.Teams),
		Players:      emptyIfNil(resp.Players),
		TotalCount:   resp.TotalCount,
		CountExact:   resp.CountExact,
		PostTotal:    resp.PostTotal,
		CommentTotal: resp.CommentTotal,
		TeamTotal:    resp.TeamTotal,
		PlayerTotal:  resp.PlayerTotal,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
}

func (s *Server) HandleMentions(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	text := values.Get("q")

	limit := 10
	if limitStr := values.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > s.cfg.Search.MaxPageSize {
		limit = s.cfg.Search.MaxPageSize
	}

	var kinds []search.MentionKind
	for _, k := range values["kind"] {
		switch search.MentionKind(k) {
		case search.MentionTeam, search.MentionPlayer:
			kinds = append(kinds, search.MentionKind(k))
		}
	}

	results, err := s.searcher.SearchMentions(r.Context(), text, limit, kinds)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Mention search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, MentionsResponse{
		Query:   text,
		Results: emptyIfNil(results),
		Count:   len(results),
	})
}

func (s *Server) HandleTeamMatches(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Team id must be an integer")
		return
	}

	matches, state, err := s.matches.Get(r.Context(), teamID)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "Fixture fetch failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, TeamMatchesResponse{
		TeamID:  teamID,
		Matches: emptyIfNil(matches),
		Cached:  state == matchcache.StateHit,
	})
}

func (s *Server) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if req.ResultKind == "" || req.ResultID == 0 {
		s.writeError(w, http.StatusBadRequest, "Invalid body", "result_kind and result_id are required")
		return
	}

	// Fire and forget; the response does not wait for persistence.
	s.recorder.Record(req.Query, req.ResultKind, req.ResultID)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
