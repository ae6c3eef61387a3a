package search

import (
	"context"
	"strings"
	"sync"

	"github.com/matchdayhq/matchday/pkg/locale"
	"github.com/matchdayhq/matchday/pkg/log"
	"github.com/matchdayhq/matchday/pkg/store"
)

// Backend is the set of per-kind sub-searchers the router dispatches to.
// Post and comment search never return an error: query failures there are
// logged and degrade to empty results inside the searcher. Team and player
// search surface their errors, since a broken filter configuration is a
// caller-visible defect rather than an absence of results.
type Backend interface {
	SearchPosts(ctx context.Context, text string, sort SortKey, limit, offset int, skipCount bool) ([]PostRow, int)
	SearchComments(ctx context.Context, text string, sort SortKey, limit, offset int, skipCount bool) ([]CommentRow, int)
	SearchTeams(ctx context.Context, f TeamFilter) ([]TeamRow, int, bool, error)
	SearchPlayers(ctx context.Context, f PlayerFilter) ([]PlayerRow, int, bool, error)
}

// Rules is the reloadable business data entity search depends on: the
// localization dictionary and the league allow-list. Both come from
// deployment configuration and may be swapped at runtime when the config
// file changes.
type Rules struct {
	Dictionary       *locale.Dictionary
	AllowedLeagueIDs []int64

	// PopularTeamIDs and PopularPlayerIDs back the mention-search fallback
	// for empty queries.
	PopularTeamIDs   []int64
	PopularPlayerIDs []int64
}

// Searcher is the database-backed Backend implementation.
type Searcher struct {
	store  *store.Store
	logger *log.Logger

	mu    sync.RWMutex
	rules Rules
}

// NewSearcher creates a searcher over the given store. A nil dictionary in
// rules is replaced with an empty one.
func NewSearcher(st *store.Store, rules Rules) *Searcher {
	if rules.Dictionary == nil {
		rules.Dictionary = locale.Empty()
	}
	return &Searcher{
		store:  st,
		logger: log.ForComponent("search"),
		rules:  rules,
	}
}

// SetRules swaps the reloadable rules. Safe to call while searches are in
// flight; running queries keep the rules they started with.
func (s *Searcher) SetRules(rules Rules) {
	if rules.Dictionary == nil {
		rules.Dictionary = locale.Empty()
	}
	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
}

func (s *Searcher) currentRules() Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// likePattern escapes LIKE metacharacters in text and wraps it for a
// substring match. Matching is substring-based on purpose; there is no
// text index in this system.
func likePattern(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(text) + "%"
}
