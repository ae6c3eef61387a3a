// Package search implements the federated community search engine: a query
// router that fans a free-text query out over posts, comments, teams and
// players, merges the per-kind results into a single response envelope, and
// ranks entity results with localization-aware tie-breaking.
package search

import (
	"time"
)

// Scope selects which entity kinds a search request targets.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopePosts    Scope = "posts"
	ScopeComments Scope = "comments"
	ScopeTeams    Scope = "teams"
	ScopePlayers  Scope = "players"
)

// ParseScope maps a request string to a Scope, defaulting to ScopeAll.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopePosts, ScopeComments, ScopeTeams, ScopePlayers:
		return Scope(s)
	default:
		return ScopeAll
	}
}

// SortKey orders content results. Not every kind supports every key;
// comments have no view counter, so SortViews falls back to SortLatest
// there.
type SortKey string

const (
	SortLatest SortKey = "latest"
	SortViews  SortKey = "views"
	SortLikes  SortKey = "likes"
)

// ParseSortKey maps a request string to a SortKey, defaulting to SortLatest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortViews, SortLikes:
		return SortKey(s)
	default:
		return SortLatest
	}
}

// Query is a validated search request.
type Query struct {
	// Text is the free-text query. Whitespace-only text short-circuits to
	// an empty response without dispatching any sub-search.
	Text string

	Scope Scope
	Sort  SortKey

	// Limit and Offset define a 0-indexed, exclusive-end result range.
	Limit  int
	Offset int

	// SkipTotalCount omits the exact counting round-trip for post and
	// comment search; the reported totals then equal the number of rows
	// actually returned.
	SkipTotalCount bool
}

// PostRow is an immutable projection of a post plus derived display fields.
type PostRow struct {
	ID         int64     `json:"id"`
	BoardID    int64     `json:"board_id"`
	BoardName  string    `json:"board_name"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	Snippet    string    `json:"snippet"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentRow is an immutable projection of a comment plus derived fields.
type CommentRow struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	PostTitle  string    `json:"post_title"`
	AuthorName string    `json:"author_name"`
	Snippet    string    `json:"snippet"`
	Likes      int64     `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

// TeamRow is an immutable projection of a team. DisplayName carries the
// localized name when the localization dictionary has one; IsLocalized
// records that so client-side ordering can prefer localized rows.
type TeamRow struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	ShortCode       string `json:"short_code,omitempty"`
	City            string `json:"city,omitempty"`
	Venue           string `json:"venue,omitempty"`
	Country         string `json:"country,omitempty"`
	LeagueID        *int64 `json:"league_id"`
	Popularity      int64  `json:"popularity"`
	CurrentPosition *int64 `json:"current_position"`
	IsLocalized     bool   `json:"is_localized"`
	LogoURL         string `json:"logo_url,omitempty"`
}

// PlayerRow is an immutable projection of a player.
type PlayerRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	TeamID      *int64 `json:"team_id"`
	TeamName    string `json:"team_name,omitempty"`
	Position    string `json:"position,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Popularity  int64  `json:"popularity"`
	IsLocalized bool   `json:"is_localized"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Response is the merged search envelope. Failures never surface here; a
// kind whose sub-search failed contributes an empty slice.
type Response struct {
	Posts    []PostRow    `json:"posts"`
	Comments []CommentRow `json:"comments"`
	Teams    []TeamRow    `json:"teams"`
	Players  []PlayerRow  `json:"players"`

	// TotalCount sums the per-kind totals. When counting was skipped a
	// kind contributes the rows actually returned, so the sum is an
	// approximation; CountExact tells callers which one they got.
	TotalCount int  `json:"total_count"`
	CountExact bool `json:"count_exact"`

	PostTotal    int `json:"post_total"`
	CommentTotal int `json:"comment_total"`
	TeamTotal    int `json:"team_total"`
	PlayerTotal  int `json:"player_total"`
}

// MentionKind tags a mention-search result row.
type MentionKind string

const (
	MentionTeam   MentionKind = "team"
	MentionPlayer MentionKind = "player"
)

// MentionRow is one autocomplete suggestion from the unified entity-mention
// search over teams and players.
type MentionRow struct {
	Kind        MentionKind `json:"kind"`
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	IsLocalized bool        `json:"is_localized"`
	Popularity  int64       `json:"popularity"`
}

// Fallback display values used when a post's author or board is missing.
const (
	anonymousAuthor  = "익명"
	defaultBoardName = "게시판"
)
