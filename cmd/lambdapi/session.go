package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"lambdapi/internal/config"
	"lambdapi/internal/confluence"
	"lambdapi/internal/sigfile"
	"lambdapi/pkg/reduce"
	"lambdapi/pkg/sig"
)

// loadProjectConfig reads lambdapi.toml from the working directory,
// falling back to config.Default when it does not exist — a missing
// file is not an error, matching cmd/lambdapi's "works with zero
// configuration" baseline.
func loadProjectConfig() (config.Config, error) {
	const path = "lambdapi.toml"
	if _, err := os.Stat(path); err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

func strategyFromConfig(name string) reduce.Strategy {
	switch strings.ToLower(name) {
	case "byvalue":
		return reduce.ByValue
	case "bystrongvalue":
		return reduce.ByStrongValue
	default:
		return reduce.ByName
	}
}

func confluenceChecker(cfg config.ConfluenceConfig) (confluence.Checker, confluence.Mode) {
	mode := confluence.Fatal
	if cfg.Advisory {
		mode = confluence.Advisory
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return confluence.AlwaysConfluent{}, mode
	}
	return confluence.NewCommandChecker(cfg.Command, cfg.Args...), mode
}

// defaultReduceConfig builds the reduction configuration every
// subcommand uses against a freshly rebuilt signature, from
// lambdapi.toml's [reduction] section (or its defaults).
func defaultReduceConfig(s *sig.Signature, rc config.ReductionConfig) reduce.Config {
	return reduce.Config{
		Signature: s,
		Beta:      rc.Beta,
		Strategy:  strategyFromConfig(rc.Strategy),
		Target:    reduce.TargetSnf,
		StepLimit: rc.StepLimit,
	}
}

// rebuildSignature replays a compiled-signature file's records into a
// fresh, live Signature — declarations first (already in dependency
// order, since sigfile.Decode preserves Export's declaration-order
// guarantee), then each symbol's rules, so the confluence checker and
// decision-tree compiler run exactly as they would have at original
// checking time.
func rebuildSignature(path string) (*sig.Signature, config.Config, error) {
	records, err := sigfile.Load(path)
	if err != nil {
		return nil, config.Config{}, err
	}
	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	checker, mode := confluenceChecker(cfg.Confluence)
	s := sig.New(checker, mode, slog.Default())
	for _, r := range records {
		if err := s.AddDeclaration(r.Name, r.Staticity(), r.Type); err != nil {
			return nil, config.Config{}, err
		}
	}
	ctx := context.Background()
	for _, r := range records {
		if len(r.Rules) == 0 {
			continue
		}
		if err := s.AddRules(ctx, r.Rules); err != nil {
			return nil, config.Config{}, err
		}
	}
	return s, cfg, nil
}
