package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config is the full matchday configuration, loaded from a TOML file.
type Config struct {
	// DatabasePath is the SQLite database file backing all content tables.
	DatabasePath string `toml:"database_path"`

	// ListenAddr is the HTTP API bind address, e.g. ":8080".
	ListenAddr string `toml:"listen_addr"`

	Search Search `toml:"search"`
	Cache  Cache  `toml:"cache"`
	Locale Locale `toml:"locale"`
}

// Search holds search tuning and the business-rule data that used to live
// inline in the application code: the league allow-list for team search and
// the popular-entity fallback used by mention autocomplete before the user
// types anything.
type Search struct {
	// DefaultPageSize is used when a request does not specify a limit.
	DefaultPageSize int `toml:"default_page_size"`

	// MaxPageSize caps any requested limit.
	MaxPageSize int `toml:"max_page_size"`

	// AllowedLeagueIDs restricts team search results to these leagues.
	// An empty list disables the restriction.
	AllowedLeagueIDs []int64 `toml:"allowed_league_ids"`

	// PopularTeamIDs and PopularPlayerIDs are returned by mention search
	// when the query is empty.
	PopularTeamIDs   []int64 `toml:"popular_team_ids"`
	PopularPlayerIDs []int64 `toml:"popular_player_ids"`
}

// Cache configures the supplementary match-data cache.
type Cache struct {
	// TTL is how long a team's fixture list stays fresh.
	TTL Duration `toml:"ttl"`

	// MaxEntries bounds the cache; least recently used teams are evicted.
	MaxEntries int `toml:"max_entries"`
}

// Locale points at the localization dictionary file.
type Locale struct {
	// DictionaryPath is a TOML file mapping canonical entity ids to
	// localized display data. Empty means no localization.
	DictionaryPath string `toml:"dictionary_path"`
}

// Duration wraps time.Duration so it round-trips through TOML as a string
// like "5m" or "1h30m".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// DefaultConfig returns a configuration with every field set to its default.
func DefaultConfig() (*Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	return &Config{
		DatabasePath: filepath.Join(dataDir, "matchday.db"),
		ListenAddr:   ":8080",
		Search: Search{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Cache: Cache{
			TTL:        Duration{5 * time.Minute},
			MaxEntries: 512,
		},
	}, nil
}

// LoadConfig reads the TOML file at configPath. A missing file yields the
// default configuration; a malformed one is an error.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DatabasePath == "" {
		dataDir, err := DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		cfg.DatabasePath = filepath.Join(dataDir, "matchday.db")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Search.DefaultPageSize <= 0 {
		cfg.Search.DefaultPageSize = 20
	}
	if cfg.Search.MaxPageSize <= 0 {
		cfg.Search.MaxPageSize = 100
	}
	if cfg.Cache.TTL.Duration == 0 {
		cfg.Cache.TTL = Duration{5 * time.Minute}
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 512
	}

	return &cfg, nil
}

// SaveConfig writes the configuration back to configPath.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration to configPath.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// DefaultDataDir returns the directory for the database file, honoring
// XDG_DATA_HOME and falling back to ~/.local/share.
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "matchday")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	return dir, nil
}

// ConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME
// and falling back to ~/.config.
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "matchday")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
