package search

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// PlayerFilter is the input to SearchPlayers.
type PlayerFilter struct {
	Text     string
	TeamID   *int64
	Position string
	Limit    int
	Offset   int
}

// SearchPlayers is the player analogue of SearchTeams: dictionary-matched
// ids OR substring over the stored names, optional equality filters,
// popularity-first ordering and a stable localized-first re-sort. Player
// search has no league allow-list; scope narrowing applies to teams only.
func (s *Searcher) SearchPlayers(ctx context.Context, f PlayerFilter) ([]PlayerRow, int, bool, error) {
	rules := s.currentRules()

	conds, args := playerConditions(f, rules)
	where := strings.Join(conds, " AND ")

	query := `
		SELECT p.id, p.name, p.display_name, p.team_id, t.name,
		       p.position, p.nationality, p.popularity, p.photo_url
		FROM players p
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE ` + where + `
		ORDER BY p.popularity DESC, p.name ASC
		LIMIT ? OFFSET ?`

	rows, err := s.store.DB().QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, false, fmt.Errorf("querying players: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close player rows: %v", err)
		}
	}()

	var result []PlayerRow
	for rows.Next() {
		var row PlayerRow
		var displayName, teamName, position, nationality, photoURL sql.NullString
		var teamID sql.NullInt64

		err := rows.Scan(&row.ID, &row.Name, &displayName, &teamID, &teamName,
			&position, &nationality, &row.Popularity, &photoURL)
		if err != nil {
			return nil, 0, false, fmt.Errorf("scanning player row: %w", err)
		}

		row.DisplayName = displayName.String
		if row.DisplayName == "" {
			row.DisplayName = row.Name
		}
		row.TeamName = teamName.String
		row.Position = position.String
		row.Nationality = nationality.String
		row.PhotoURL = photoURL.String
		if teamID.Valid {
			row.TeamID = &teamID.Int64
		}

		if entry, ok := rules.Dictionary.PlayerEntry(row.ID); ok && entry.LocalizedName != "" {
			row.DisplayName = entry.LocalizedName
			row.IsLocalized = true
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, false, fmt.Errorf("iterating player rows: %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].IsLocalized && !result[j].IsLocalized
	})

	var total int
	countQuery := "SELECT COUNT(*) FROM players p WHERE " + where
	if err := s.store.DB().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, false, fmt.Errorf("counting players: %w", err)
	}

	hasMore := f.Offset+len(result) < total
	return result, total, hasMore, nil
}

func playerConditions(f PlayerFilter, rules Rules) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	pattern := likePattern(f.Text)
	matchedIDs := rules.Dictionary.MatchPlayerIDs(f.Text)

	textConds := []string{
		`p.name LIKE ? ESCAPE '\'`,
		`p.display_name LIKE ? ESCAPE '\'`,
	}
	args = append(args, pattern, pattern)
	if len(matchedIDs) > 0 {
		textConds = append([]string{"p.id IN (" + placeholders(len(matchedIDs)) + ")"}, textConds...)
		idArgs := make([]interface{}, 0, len(matchedIDs))
		for _, id := range matchedIDs {
			idArgs = append(idArgs, id)
		}
		args = append(idArgs, args...)
	}
	conds = append(conds, "("+strings.Join(textConds, " OR ")+")")

	if f.TeamID != nil {
		conds = append(conds, "p.team_id = ?")
		args = append(args, *f.TeamID)
	}
	if f.Position != "" {
		conds = append(conds, "p.position = ?")
		args = append(args, f.Position)
	}

	return conds, args
}
