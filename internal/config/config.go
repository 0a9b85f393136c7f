// Package config loads chessbuddy's startup configuration from a TOML
// file, with defaults matching spec.md §5's search constants.
// Library chosen per SPEC_FULL.md §6.3 (github.com/BurntSushi/toml,
// the dependency shared by Mgrdich-TermChess and frankkopp-FrankyGo's
// go.mod manifests).
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tux21b/chessbuddy/internal/search"
)

// EnvOverride is the environment variable naming a TOML config file to
// load instead of the default path.
const EnvOverride = "CHESSBUDDY_CONFIG"

// DefaultPath is used when EnvOverride is unset.
const DefaultPath = "chessbuddy.toml"

// Config holds every tunable chessbuddy reads at startup.
type Config struct {
	Search  SearchConfig  `toml:"search"`
	History HistoryConfig `toml:"history"`
}

// SearchConfig mirrors search.Engine's tunables.
type SearchConfig struct {
	Workers    int     `toml:"workers"`
	C          float64 `toml:"ucb_constant"`
	PlayoutCap int     `toml:"playout_cap"`
}

// HistoryConfig controls where internal/persist writes saved games.
type HistoryConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration, used when no TOML file
// is present.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Workers:    search.DefaultWorkers,
			C:          search.DefaultC,
			PlayoutCap: search.DefaultPlayoutCap,
		},
		History: HistoryConfig{Dir: "history"},
	}
}

// Load reads the configuration file named by EnvOverride, or
// DefaultPath if unset. A missing default file is not an error: Load
// returns Default() unchanged. A missing file named explicitly via
// EnvOverride is an error, since the caller asked for it by name.
func Load() (Config, error) {
	path := os.Getenv(EnvOverride)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}
