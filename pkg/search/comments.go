package search

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matchdayhq/matchday/pkg/snippet"
)

// SearchComments finds comments whose content contains text. Comments have
// no view counter, so SortViews degrades to SortLatest here. Error handling
// mirrors SearchPosts: failures are logged and become empty results.
func (s *Searcher) SearchComments(ctx context.Context, text string, sort SortKey, limit, offset int, skipCount bool) ([]CommentRow, int) {
	pattern := likePattern(text)

	orderClause := "c.created_at DESC"
	if sort == SortLikes {
		orderClause = "c.likes DESC, c.created_at DESC"
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT c.id, c.post_id, p.title, c.content, u.nickname, c.likes, c.created_at
		FROM comments c
		LEFT JOIN posts p ON p.id = c.post_id
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.hidden = 0 AND c.deleted = 0
		  AND c.content LIKE ? ESCAPE '\'
		ORDER BY `+orderClause+`
		LIMIT ? OFFSET ?`, pattern, limit, offset)
	if err != nil {
		s.logger.Errorf("comment search failed: %v", err)
		return nil, 0
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close comment rows: %v", err)
		}
	}()

	var result []CommentRow
	for rows.Next() {
		var row CommentRow
		var postTitle, authorName sql.NullString
		var content string

		err := rows.Scan(&row.ID, &row.PostID, &postTitle, &content,
			&authorName, &row.Likes, &row.CreatedAt)
		if err != nil {
			s.logger.Errorf("scanning comment row: %v", err)
			return nil, 0
		}

		row.PostTitle = postTitle.String
		row.AuthorName = orDefault(authorName, anonymousAuthor)
		row.Snippet = snippet.Extract(content, text, snippet.DefaultMaxLength)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		s.logger.Errorf("iterating comment rows: %v", err)
		return nil, 0
	}

	if skipCount {
		return result, len(result)
	}

	total, err := s.countComments(ctx, pattern)
	if err != nil {
		s.logger.Errorf("counting comments: %v", err)
		return result, len(result)
	}
	return result, total
}

func (s *Searcher) countComments(ctx context.Context, pattern string) (int, error) {
	var total int
	err := s.store.DB().QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM comments c
		WHERE c.hidden = 0 AND c.deleted = 0
		  AND c.content LIKE ? ESCAPE '\'`, pattern).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting comments: %w", err)
	}
	return total, nil
}
