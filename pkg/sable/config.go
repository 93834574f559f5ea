package sable

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "sable.toml"

// Config controls how units are checked. The zero value is usable and
// means "all defaults".
type Config struct {
	// MaxDepth is the nesting depth at which parsing stops with
	// RecursionLimitExceeded. Zero selects DefaultMaxDepth.
	MaxDepth int `toml:"max_depth,omitempty"`

	// FirstTypeVariable is the first value handed out by each unit's
	// fresh-variable counter.
	FirstTypeVariable int `toml:"first_type_variable,omitempty"`

	// Prelude maps names to type signatures bound in the root
	// environment. When nil, DefaultPrelude is used.
	Prelude map[string]string `toml:"prelude,omitempty"`
}

// DefaultConfig returns the configuration used when no sable.toml exists.
func DefaultConfig() *Config {
	return &Config{MaxDepth: DefaultMaxDepth}
}

// RecursionLimit is the parser nesting depth in effect for cfg.
func (cfg *Config) RecursionLimit() int {
	if cfg == nil || cfg.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return cfg.MaxDepth
}

func (cfg *Config) prelude() map[string]string {
	if cfg == nil || cfg.Prelude == nil {
		return DefaultPrelude
	}
	return cfg.Prelude
}

func (cfg *Config) firstTypeVariable() int {
	if cfg == nil {
		return 0
	}
	return cfg.FirstTypeVariable
}

// LoadConfig parses a sable.toml file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("parsing %s: max_depth must not be negative", path)
	}
	if config.FirstTypeVariable < 0 {
		return nil, fmt.Errorf("parsing %s: first_type_variable must not be negative", path)
	}
	if _, err := NewRootEnv(config.prelude()); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

// FindConfig searches for a sable.toml file starting from dir and walking
// up to parent directories. Returns the path to sable.toml and the parsed
// config, or ("", nil, nil) if not found.
func FindConfig(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at .git boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}
