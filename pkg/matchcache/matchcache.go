// Package matchcache caches per-team recent-fixture lists so that expanding
// the same team in search results twice within the TTL costs one downstream
// fetch, not two. The cache is process-scoped shared state with a hard
// invariant: at most one in-flight fetch per team, no matter how many
// concurrent readers miss at once.
package matchcache

import (
	"context"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matchdayhq/matchday/pkg/log"
	"github.com/matchdayhq/matchday/pkg/store"
)

// DefaultTTL is how long a fixture list stays fresh.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries bounds the cache when the caller passes no limit. The
// cache lives for the whole server process, so unbounded growth is not an
// option.
const DefaultMaxEntries = 512

// State describes how a Get was satisfied.
type State int

const (
	// StateHit means the entry was fresh in the cache.
	StateHit State = iota
	// StateFetched means the entry was fetched (or re-fetched after the
	// TTL) on this call, possibly by a concurrent call whose result was
	// shared.
	StateFetched
	// StateError means the downstream fetch failed. The team has no cache
	// entry afterwards, so the next Get retries.
	StateError
)

// FetchFunc loads a team's fixtures from the backing store.
type FetchFunc func(ctx context.Context, teamID int64) ([]store.Match, error)

type entry struct {
	matches   []store.Match
	fetchedAt time.Time
}

// Cache is a bounded TTL cache of per-team fixture lists.
type Cache struct {
	fetch   FetchFunc
	ttl     time.Duration
	entries *lru.Cache[int64, entry]
	group   singleflight.Group
	logger  *log.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache. ttl <= 0 and maxEntries <= 0 select the defaults.
func New(fetch FetchFunc, ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, _ := lru.New[int64, entry](maxEntries)
	return &Cache{
		fetch:   fetch,
		ttl:     ttl,
		entries: entries,
		logger:  log.ForComponent("matchcache"),
		now:     time.Now,
	}
}

// Get returns the team's fixtures, fetching them if absent or stale.
// Concurrent calls for the same team while a fetch is in flight share that
// one fetch and all observe its result.
func (c *Cache) Get(ctx context.Context, teamID int64) ([]store.Match, State, error) {
	if e, ok := c.entries.Get(teamID); ok && c.fresh(e) {
		return e.matches, StateHit, nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(teamID, 10), func() (interface{}, error) {
		// A concurrent flight may have committed while we queued.
		if e, ok := c.entries.Get(teamID); ok && c.fresh(e) {
			return e.matches, nil
		}

		matches, err := c.fetch(ctx, teamID)
		if err != nil {
			// No negative caching: drop any stale entry so the next
			// access retries.
			c.entries.Remove(teamID)
			return nil, err
		}

		c.entries.Add(teamID, entry{matches: matches, fetchedAt: c.now()})
		return matches, nil
	})
	if err != nil {
		c.logger.Warnf("fetching matches for team %d: %v", teamID, err)
		return nil, StateError, err
	}

	return v.([]store.Match), StateFetched, nil
}

// Invalidate removes the team's entry, forcing the next Get to fetch.
func (c *Cache) Invalidate(teamID int64) {
	c.entries.Remove(teamID)
}

// Len returns the number of cached teams.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) fresh(e entry) bool {
	return c.now().Sub(e.fetchedAt) <= c.ttl
}
