package search

import (
	"context"
	"database/sql"
	"fmt"
)

// teamsByIDs fetches teams by id, returned in the order the ids were given.
// Missing ids are silently skipped.
func (s *Searcher) teamsByIDs(ctx context.Context, ids []int64) ([]TeamRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rules := s.currentRules()

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT t.id, t.name, t.display_name, t.short_code, t.country,
		       t.league_id, t.popularity, t.logo_url
		FROM teams t
		WHERE t.id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying teams by id: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close team rows: %v", err)
		}
	}()

	byID := make(map[int64]TeamRow, len(ids))
	for rows.Next() {
		var row TeamRow
		var displayName, shortCode, country, logoURL sql.NullString
		var leagueID sql.NullInt64

		err := rows.Scan(&row.ID, &row.Name, &displayName, &shortCode, &country,
			&leagueID, &row.Popularity, &logoURL)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}

		row.DisplayName = displayName.String
		if row.DisplayName == "" {
			row.DisplayName = row.Name
		}
		row.ShortCode = shortCode.String
		row.Country = country.String
		row.LogoURL = logoURL.String
		if leagueID.Valid {
			row.LeagueID = &leagueID.Int64
		}
		if entry, ok := rules.Dictionary.TeamEntry(row.ID); ok && entry.LocalizedName != "" {
			row.DisplayName = entry.LocalizedName
			row.IsLocalized = true
		}
		byID[row.ID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	result := make([]TeamRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}

// playersByIDs is teamsByIDs for players.
func (s *Searcher) playersByIDs(ctx context.Context, ids []int64) ([]PlayerRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rules := s.currentRules()

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT p.id, p.name, p.display_name, p.team_id, p.position,
		       p.nationality, p.popularity, p.photo_url
		FROM players p
		WHERE p.id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying players by id: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close player rows: %v", err)
		}
	}()

	byID := make(map[int64]PlayerRow, len(ids))
	for rows.Next() {
		var row PlayerRow
		var displayName, position, nationality, photoURL sql.NullString
		var teamID sql.NullInt64

		err := rows.Scan(&row.ID, &row.Name, &displayName, &teamID, &position,
			&nationality, &row.Popularity, &photoURL)
		if err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}

		row.DisplayName = displayName.String
		if row.DisplayName == "" {
			row.DisplayName = row.Name
		}
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
		byID[row.ID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player rows: %w", err)
	}

	result := make([]PlayerRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}
