// Package api exposes the search engine over HTTP: federated search,
// mention autocomplete, cached team fixtures, click recording and a live
// activity feed.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/matchdayhq/matchday/pkg/analytics"
	"github.com/matchdayhq/matchday/pkg/config"
	"github.com/matchdayhq/matchday/pkg/log"
	"github.com/matchdayhq/matchday/pkg/matchcache"
	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/store"
)

type Server struct {
	store    *store.Store
	searcher *search.Searcher
	router   *search.Router
	matches  *matchcache.Cache
	recorder *analytics.Recorder
	hub      *analytics.Hub
	cfg      *config.Config
	logger   *log.Logger
}

func NewServer(st *store.Store, searcher *search.Searcher, matches *matchcache.Cache, recorder *analytics.Recorder, hub *analytics.Hub, cfg *config.Config) *Server {
	return &Server{
		store:    st,
		searcher: searcher,
		router:   search.NewRouter(searcher),
		matches:  matches,
		recorder: recorder,
		hub:      hub,
		cfg:      cfg,
		logger:   log.ForComponent("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
