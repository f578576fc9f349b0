// Package config loads lambdapi.toml, the per-project configuration
// file read by cmd/lambdapi at startup and handed down to pkg/reduce's
// ReductionConfig and internal/confluence's Checker.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root of lambdapi.toml.
type Config struct {
	Reduction  ReductionConfig  `toml:"reduction"`
	Confluence ConfluenceConfig `toml:"confluence"`
}

type ReductionConfig struct {
	Beta      bool   `toml:"beta"`
	Strategy  string `toml:"strategy"`
	StepLimit int    `toml:"step_limit"`
}

type ConfluenceConfig struct {
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	Advisory bool     `toml:"advisory"`
}

// Default returns the configuration used when no lambdapi.toml is
// found: β enabled, ByName strategy, no step limit, and no external
// confluence checker (pkg/sig falls back to confluence.AlwaysConfluent
// in that case).
func Default() Config {
	return Config{
		Reduction: ReductionConfig{Beta: true, Strategy: "ByName", StepLimit: 0},
	}
}

// Load reads and validates lambdapi.toml at path.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("reduction", "strategy") {
		switch strings.ToLower(cfg.Reduction.Strategy) {
		case "byname", "byvalue", "bystrongvalue":
		default:
			return Config{}, fmt.Errorf("%s: [reduction].strategy %q is not one of ByName, ByValue, ByStrongValue", path, cfg.Reduction.Strategy)
		}
	}
	if meta.IsDefined("confluence", "command") && strings.TrimSpace(cfg.Confluence.Command) == "" {
		return Config{}, fmt.Errorf("%s: [confluence].command is empty", path)
	}
	return cfg, nil
}
