package search

import (
	"net/url"
	"strconv"
)

// ParseQuery parses HTTP query parameters into a Query, applying defaults
// and clamping the limit. Unknown scope and sort values fall back to their
// defaults rather than erroring.
//
// Supported parameters:
//   - q: free-text query
//   - scope: all|posts|comments|teams|players (default all)
//   - sort: latest|views|likes (default latest)
//   - limit: results per kind (default defaultLimit, capped at maxLimit)
//   - offset: 0-based result offset
//   - skip_count: "true"/"1" skips the exact counting round-trip
func ParseQuery(values url.Values, defaultLimit, maxLimit int) Query {
	q := Query{
		Text:  values.Get("q"),
		Scope: ParseScope(values.Get("scope")),
		Sort:  ParseSortKey(values.Get("sort")),
		Limit: defaultLimit,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			q.Limit = parsed
		}
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			q.Offset = parsed
		}
	}

	switch values.Get("skip_count") {
	case "true", "1":
		q.SkipTotalCount = true
	}

	return q
}
