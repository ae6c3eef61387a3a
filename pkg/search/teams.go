package search

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// TeamFilter is the input to SearchTeams.
type TeamFilter struct {
	Text     string
	LeagueID *int64
	Country  string
	Limit    int
	Offset   int
}

// SearchTeams finds teams matching text. The predicate combines ids matched
// through the localization dictionary with plain substring matches over the
// stored name, display name, short code, city and venue; when the dictionary
// yields nothing only the substring branch applies. Results are restricted
// to the configured league allow-list, a scope-narrowing business rule that
// must hold regardless of other filters.
//
// The database orders by stored popularity, then current standing (nulls
// last), then name. After the fetch, rows with a localized name are moved
// ahead of rows without one; the move is stable so the database ordering is
// preserved within each group.
func (s *Searcher) SearchTeams(ctx context.Context, f TeamFilter) ([]TeamRow, int, bool, error) {
	rules := s.currentRules()

	conds, args := teamConditions(f, rules)
	where := strings.Join(conds, " AND ")

	query := `
		SELECT t.id, t.name, t.display_name, t.short_code, t.city, t.venue,
		       t.country, t.league_id, t.popularity, t.current_position, t.logo_url
		FROM teams t
		WHERE ` + where + `
		ORDER BY t.popularity DESC,
		         CASE WHEN t.current_position IS NULL THEN 1 ELSE 0 END,
		         t.current_position ASC,
		         t.name ASC
		LIMIT ? OFFSET ?`

	rows, err := s.store.DB().QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, false, fmt.Errorf("querying teams: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close team rows: %v", err)
		}
	}()

	var result []TeamRow
	for rows.Next() {
		var row TeamRow
		var displayName, shortCode, city, venue, country, logoURL sql.NullString
		var leagueID, currentPosition sql.NullInt64

		err := rows.Scan(&row.ID, &row.Name, &displayName, &shortCode, &city, &venue,
			&country, &leagueID, &row.Popularity, &currentPosition, &logoURL)
		if err != nil {
			return nil, 0, false, fmt.Errorf("scanning team row: %w", err)
		}

		row.DisplayName = displayName.String
		if row.DisplayName == "" {
			row.DisplayName = row.Name
		}
		row.ShortCode = shortCode.String
		row.City = city.String
		row.Venue = venue.String
		row.Country = country.String
		row.LogoURL = logoURL.String
		if leagueID.Valid {
			row.LeagueID = &leagueID.Int64
		}
		if currentPosition.Valid {
			row.CurrentPosition = &currentPosition.Int64
		}

		if entry, ok := rules.Dictionary.TeamEntry(row.ID); ok && entry.LocalizedName != "" {
			row.DisplayName = entry.LocalizedName
			row.IsLocalized = true
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, false, fmt.Errorf("iterating team rows: %w", err)
	}

	// Localized rows first; stable, so the DB ordering survives within
	// each group.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].IsLocalized && !result[j].IsLocalized
	})

	var total int
	countQuery := "SELECT COUNT(*) FROM teams t WHERE " + where
	if err := s.store.DB().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, false, fmt.Errorf("counting teams: %w", err)
	}

	hasMore := f.Offset+len(result) < total
	return result, total, hasMore, nil
}

func teamConditions(f TeamFilter, rules Rules) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	pattern := likePattern(f.Text)
	matchedIDs := rules.Dictionary.MatchTeamIDs(f.Text)

	textConds := []string{
		`t.name LIKE ? ESCAPE '\'`,
		`t.display_name LIKE ? ESCAPE '\'`,
		`t.short_code LIKE ? ESCAPE '\'`,
		`t.city LIKE ? ESCAPE '\'`,
		`t.venue LIKE ? ESCAPE '\'`,
	}
	for range textConds {
		args = append(args, pattern)
	}
	if len(matchedIDs) > 0 {
		textConds = append([]string{"t.id IN (" + placeholders(len(matchedIDs)) + ")"}, textConds...)
		idArgs := make([]interface{}, 0, len(matchedIDs))
		for _, id := range matchedIDs {
			idArgs = append(idArgs, id)
		}
		args = append(idArgs, args...)
	}
	conds = append(conds, "("+strings.Join(textConds, " OR ")+")")

	if len(rules.AllowedLeagueIDs) > 0 {
		conds = append(conds, "t.league_id IN ("+placeholders(len(rules.AllowedLeagueIDs))+")")
		for _, id := range rules.AllowedLeagueIDs {
			args = append(args, id)
		}
	}

	if f.LeagueID != nil {
		conds = append(conds, "t.league_id = ?")
		args = append(args, *f.LeagueID)
	}
	if f.Country != "" {
		conds = append(conds, "t.country = ?")
		args = append(args, f.Country)
	}

	return conds, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
