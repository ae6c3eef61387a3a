package api

import (
	"time"

	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SearchResponse struct {
	Query    string              `json:"query"`
	Scope    string              `json:"scope"`
	Posts    []search.PostRow    `json:"posts"`
	Comments []search.CommentRow `json:"comments"`
	Teams    []search.TeamRow    `json:"teams"`
	Players  []search.PlayerRow  `json:"players"`

	TotalCount int  `json:"total_count"`
	CountExact bool `json:"count_exact"`

	PostTotal    int `json:"post_total"`
	CommentTotal int `json:"comment_total"`
	TeamTotal    int `json:"team_total"`
	PlayerTotal  int `json:"player_total"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type MentionsResponse struct {
	Query   string              `json:"query"`
	Results []search.MentionRow `json:"results"`
	Count   int                 `json:"count"`
}

type TeamMatchesResponse struct {
	TeamID  int64         `json:"team_id"`
	Matches []store.Match `json:"matches"`
	Cached  bool          `json:"cached"`
}

type ClickRequest struct {
	Query      string `json:"query"`
	ResultKind string `json:"result_kind"`
	ResultID   int64  `json:"result_id"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
