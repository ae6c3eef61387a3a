package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/matchdayhq/matchday/pkg/log"
)

// defaultSearchTimeout bounds each sub-search individually. A slow entity
// search must not starve post and comment results, so there is no shared
// deadline that aborts siblings.
const defaultSearchTimeout = 5 * time.Second

// Router is the top-level search entry point. It validates the query,
// dispatches the applicable sub-searchers concurrently and merges their
// outputs into one envelope. It never returns an error: each sub-search
// failure is isolated at its own boundary and degrades to an empty slice
// for that kind only.
type Router struct {
	backend Backend
	logger  *log.Logger
	timeout time.Duration
}

// NewRouter creates a router over the given backend.
func NewRouter(backend Backend) *Router {
	return &Router{
		backend: backend,
		logger:  log.ForComponent("router"),
		timeout: defaultSearchTimeout,
	}
}

// Search executes q and returns the merged response. A query that is empty
// after trimming returns an all-empty response without dispatching any
// sub-search.
func (r *Router) Search(ctx context.Context, q Query) Response {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return Response{CountExact: true}
	}

	var resp Response
	resp.CountExact = !q.SkipTotalCount

	var wg sync.WaitGroup

	if q.Scope == ScopeAll || q.Scope == ScopePosts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			resp.Posts, resp.PostTotal = r.backend.SearchPosts(sctx, text, q.Sort, q.Limit, q.Offset, q.SkipTotalCount)
		}()
	}

	if q.Scope == ScopeAll || q.Scope == ScopeComments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			// Comments have no view counter.
			sort := q.Sort
			if sort == SortViews {
				sort = SortLatest
			}
			resp.Comments, resp.CommentTotal = r.backend.SearchComments(sctx, text, sort, q.Limit, q.Offset, q.SkipTotalCount)
		}()
	}

	if q.Scope == ScopeAll || q.Scope == ScopeTeams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			teams, total, _, err := r.backend.SearchTeams(sctx, TeamFilter{
				Text:   text,
				Limit:  q.Limit,
				Offset: q.Offset,
			})
			if err != nil {
				// Entity search surfaces errors to direct callers,
				// but nothing crosses the router boundary.
				r.logger.Errorf("team search failed: %v", err)
				return
			}
			resp.Teams, resp.TeamTotal = teams, total
		}()
	}

	if q.Scope == ScopeAll || q.Scope == ScopePlayers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			players, total, _, err := r.backend.SearchPlayers(sctx, PlayerFilter{
				Text:   text,
				Limit:  q.Limit,
				Offset: q.Offset,
			})
			if err != nil {
				r.logger.Errorf("player search failed: %v", err)
				return
			}
			resp.Players, resp.PlayerTotal = players, total
		}()
	}

	wg.Wait()

	resp.TotalCount = resp.PostTotal + resp.CommentTotal + resp.TeamTotal + resp.PlayerTotal
	return resp
}
