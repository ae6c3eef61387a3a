package cmd

import (
	"fmt"

	"github.com/matchdayhq/matchday/pkg/config"
	"github.com/matchdayhq/matchday/pkg/locale"
	"github.com/matchdayhq/matchday/pkg/search"
	"github.com/matchdayhq/matchday/pkg/store"
)

// openStore loads the config, opens the database and applies pending
// migrations. Callers own closing the returned store.
func openStore(configPath string) (*config.Config, *store.Store, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	if err := st.Migrate(); err != nil {
		if closeErr := st.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close store: %v\n", closeErr)
		}
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	return cfg, st, nil
}

// rulesFromConfig assembles the reloadable search rules: localization
// dictionary, league allow-list and popular-entity fallback.
func rulesFromConfig(cfg *config.Config) (search.Rules, error) {
	dict, err := locale.Load(cfg.Locale.DictionaryPath)
	if err != nil {
		return search.Rules{}, fmt.Errorf("loading locale dictionary: %w", err)
	}

	return search.Rules{
		Dictionary:       dict,
		AllowedLeagueIDs: cfg.Search.AllowedLeagueIDs,
		PopularTeamIDs:   cfg.Search.PopularTeamIDs,
		PopularPlayerIDs: cfg.Search.PopularPlayerIDs,
	}, nil
}
