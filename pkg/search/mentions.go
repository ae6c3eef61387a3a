package search

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// mentionFetchLimit is how many candidates each kind contributes before the
// merged ranking is cut down to the caller's limit.
const mentionFetchLimit = 20

// SearchMentions is the unified entity search behind mention autocomplete.
// It queries teams and players concurrently, merges them and ranks the
// result:
//
//  1. exact case-insensitive match of the localized or canonical name
//  2. presence of a localized name
//  3. players before teams (mentions skew toward individuals)
//  4. otherwise stable
//
// An empty query returns the configured popular entities instead of
// nothing, so the composer has suggestions before the user types.
//
// Unlike router search, errors propagate: a failing entity query means a
// broken filter configuration, not an empty result set.
func (s *Searcher) SearchMentions(ctx context.Context, text string, limit int, kinds []MentionKind) ([]MentionRow, error) {
	if limit <= 0 {
		limit = 10
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s.popularMentions(ctx, limit, kinds)
	}

	wantTeams, wantPlayers := mentionKindSet(kinds)

	var teams []TeamRow
	var players []PlayerRow

	g, gctx := errgroup.WithContext(ctx)
	if wantTeams {
		g.Go(func() error {
			var err error
			teams, _, _, err = s.SearchTeams(gctx, TeamFilter{Text: text, Limit: mentionFetchLimit})
			return err
		})
	}
	if wantPlayers {
		g.Go(func() error {
			var err error
			players, _, _, err = s.SearchPlayers(gctx, PlayerFilter{Text: text, Limit: mentionFetchLimit})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]MentionRow, 0, len(teams)+len(players))
	for _, p := range players {
		rows = append(rows, MentionRow{
			Kind:        MentionPlayer,
			ID:          p.ID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			IsLocalized: p.IsLocalized,
			Popularity:  p.Popularity,
		})
	}
	for _, t := range teams {
		rows = append(rows, MentionRow{
			Kind:        MentionTeam,
			ID:          t.ID,
			Name:        t.Name,
			DisplayName: t.DisplayName,
			IsLocalized: t.IsLocalized,
			Popularity:  t.Popularity,
		})
	}

	rankMentions(rows, text)

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// rankMentions applies the mention tie-break ordering in place. The sort is
// stable so rows that tie on every rule keep their per-kind order.
func rankMentions(rows []MentionRow, text string) {
	lower := strings.ToLower(text)

	rank := func(r MentionRow) int {
		// Lower ranks sort first.
		if strings.ToLower(r.DisplayName) == lower || strings.ToLower(r.Name) == lower {
			return 0
		}
		if r.IsLocalized {
			return 1
		}
		return 2
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rank(rows[i]), rank(rows[j])
		if ri != rj {
			return ri < rj
		}
		if rows[i].Kind != rows[j].Kind {
			return rows[i].Kind == MentionPlayer
		}
		return false
	})
}

// popularMentions resolves the configured popular-entity ids into rows,
// players first, preserving the configured order within each kind.
func (s *Searcher) popularMentions(ctx context.Context, limit int, kinds []MentionKind) ([]MentionRow, error) {
	rules := s.currentRules()
	wantTeams, wantPlayers := mentionKindSet(kinds)

	var rows []MentionRow

	if wantPlayers {
		players, err := s.playersByIDs(ctx, rules.PopularPlayerIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			rows = append(rows, MentionRow{
				Kind:        MentionPlayer,
				ID:          p.ID,
				Name:        p.Name,
				DisplayName: p.DisplayName,
				IsLocalized: p.IsLocalized,
				Popularity:  p.Popularity,
			})
		}
	}
	if wantTeams {
		teams, err := s.teamsByIDs(ctx, rules.PopularTeamIDs)
		if err != nil {
			return nil, err
		}
		for _, t := range teams {
			rows = append(rows, MentionRow{
				Kind:        MentionTeam,
				ID:          t.ID,
				Name:        t.Name,
				DisplayName: t.DisplayName,
				IsLocalized: t.IsLocalized,
				Popularity:  t.Popularity,
			})
		}
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func mentionKindSet(kinds []MentionKind) (teams, players bool) {
	if len(kinds) == 0 {
		return true, true
	}
	for _, k := range kinds {
		switch k {
		case MentionTeam:
			teams = true
		case MentionPlayer:
			players = true
		}
	}
	return teams, players
}
