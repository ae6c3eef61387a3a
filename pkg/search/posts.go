package search

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matchdayhq/matchday/pkg/snippet"
)

// SearchPosts finds posts whose title contains text, case-insensitively.
// The body is fetched for snippet extraction but is not matched against.
// Hidden, deleted and unpublished posts are excluded at the predicate
// level. The exact total is counted in a second query only when skipCount
// is false; otherwise the total equals the rows returned.
//
// Query failures are logged and yield ([], 0). A missing page of results
// and a failing content store are indistinguishable here on purpose.
func (s *Searcher) SearchPosts(ctx context.Context, text string, sort SortKey, limit, offset int, skipCount bool) ([]PostRow, int) {
	pattern := likePattern(text)

	orderClause := "p.created_at DESC"
	switch sort {
	case SortViews:
		orderClause = "p.views DESC, p.created_at DESC"
	case SortLikes:
		orderClause = "p.likes DESC, p.created_at DESC"
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT p.id, p.board_id, b.name, p.title, p.content,
		       u.nickname, p.views, p.likes, p.created_at
		FROM posts p
		LEFT JOIN boards b ON b.id = p.board_id
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.hidden = 0 AND p.deleted = 0 AND p.published = 1
		  AND p.title LIKE ? ESCAPE '\'
		ORDER BY `+orderClause+`
		LIMIT ? OFFSET ?`, pattern, limit, offset)
	if err != nil {
		s.logger.Errorf("post search failed: %v", err)
		return nil, 0
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close post rows: %v", err)
		}
	}()

	var result []PostRow
	for rows.Next() {
		var row PostRow
		var boardID sql.NullInt64
		var boardName, authorName sql.NullString
		var content string

		err := rows.Scan(&row.ID, &boardID, &boardName, &row.Title, &content,
			&authorName, &row.Views, &row.Likes, &row.CreatedAt)
		if err != nil {
			s.logger.Errorf("scanning post row: %v", err)
			return nil, 0
		}

		row.BoardID = boardID.Int64
		row.BoardName = orDefault(boardName, defaultBoardName)
		row.AuthorName = orDefault(authorName, anonymousAuthor)
		row.Snippet = snippet.Extract(content, text, snippet.DefaultMaxLength)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		s.logger.Errorf("iterating post rows: %v", err)
		return nil, 0
	}

	if skipCount {
		return result, len(result)
	}

	total, err := s.countPosts(ctx, pattern)
	if err != nil {
		s.logger.Errorf("counting posts: %v", err)
		return result, len(result)
	}
	return result, total
}

func (s *Searcher) countPosts(ctx context.Context, pattern string) (int, error) {
	var total int
	err := s.store.DB().QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM posts p
		WHERE p.hidden = 0 AND p.deleted = 0 AND p.published = 1
		  AND p.title LIKE ? ESCAPE '\'`, pattern).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return total, nil
}

func orDefault(s sql.NullString, fallback string) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return fallback
}
