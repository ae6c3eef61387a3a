package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/search/mentions", s.HandleMentions)
	mux.HandleFunc("GET /api/teams/{id}/matches", s.HandleTeamMatches)
	mux.HandleFunc("POST /api/clicks", s.HandleClick)
	mux.HandleFunc("GET /api/activity/ws", s.HandleActivityWS)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
