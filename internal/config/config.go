// Package config loads the small, fixed configuration surface the chunk engine
// core is allowed to depend on. Everything else (networking, RCON, plugins,
// command dispatch) is out of scope and configured by the process embedding this
// module, not by this package.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// ChunkFormat selects the on-disk chunk storage layout.
type ChunkFormat string

const (
	FormatAnvil  ChunkFormat = "anvil"
	FormatLinear ChunkFormat = "linear"
)

// Core is the complete configuration surface of the chunk engine.
type Core struct {
	WorldRoot   string      `toml:"world_root"`
	ChunkFormat ChunkFormat `toml:"chunk_format"`
	Seed        int64       `toml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Core {
	return Core{
		WorldRoot:   "world",
		ChunkFormat: FormatAnvil,
		Seed:        0,
	}
}

// Load reads a TOML file at path into a Core seeded with Default values, so a
// file that sets only one key leaves the others at their defaults.
func Load(path string) (Core, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Core{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Core{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Core{}, err
	}
	return cfg, nil
}

// Validate rejects a configuration this module cannot act on.
func (c Core) Validate() error {
	if c.WorldRoot == "" {
		return fmt.Errorf("config: world_root must not be empty")
	}
	switch c.ChunkFormat {
	case FormatAnvil, FormatLinear:
	default:
		return fmt.Errorf("config: unsupported chunk_format %q", c.ChunkFormat)
	}
	return nil
}
