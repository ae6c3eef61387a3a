// Package locale provides the static localization dictionary used by entity
// search. The dictionary maps canonical (English) team and player ids to
// localized display data and supports fuzzy substring lookup over both the
// canonical and localized names. It is read-only reference data owned by the
// deployment, not by this service; we just load it once and query it.
package locale

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Entry is the localized display data for a single entity.
type Entry struct {
	ID               int64  `toml:"id"`
	Name             string `toml:"name"`
	LocalizedName    string `toml:"localized_name"`
	LocalizedCountry string `toml:"localized_country"`
}

type dictionaryFile struct {
	Teams   []Entry `toml:"teams"`
	Players []Entry `toml:"players"`
}

// Dictionary is an in-memory localization table. The zero value is unusable;
// construct with Load or Empty.
type Dictionary struct {
	teams   map[int64]Entry
	players map[int64]Entry
}

// Empty returns a dictionary with no entries. Lookups miss and matches
// return nothing, which leaves entity search on its plain substring branch.
func Empty() *Dictionary {
	return &Dictionary{
		teams:   make(map[int64]Entry),
		players: make(map[int64]Entry),
	}
}

// Load reads a TOML dictionary file. An empty path yields an empty
// dictionary rather than an error so deployments without localization work
// unchanged.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale dictionary: %w", err)
	}

	var file dictionaryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling locale dictionary: %w", err)
	}

	d := Empty()
	for _, e := range file.Teams {
		d.teams[e.ID] = e
	}
	for _, e := range file.Players {
		d.players[e.ID] = e
	}
	return d, nil
}

// TeamEntry returns the localized entry for a team id.
func (d *Dictionary) TeamEntry(id int64) (Entry, bool) {
	e, ok := d.teams[id]
	return e, ok
}

// PlayerEntry returns the localized entry for a player id.
func (d *Dictionary) PlayerEntry(id int64) (Entry, bool) {
	e, ok := d.players[id]
	return e, ok
}

// MatchTeamIDs returns the ids of teams whose canonical or localized name
// contains text, case-insensitively. Ids are returned in ascending order so
// callers get deterministic predicates.
func (d *Dictionary) MatchTeamIDs(text string) []int64 {
	return matchIDs(d.teams, text)
}

// MatchPlayerIDs is MatchTeamIDs for players.
func (d *Dictionary) MatchPlayerIDs(text string) []int64 {
	return matchIDs(d.players, text)
}

func matchIDs(entries map[int64]Entry, text string) []int64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var ids []int64
	for id, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), text) ||
			strings.Contains(strings.ToLower(e.LocalizedName), text) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
