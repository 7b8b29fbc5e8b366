// Package config loads simulation settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/strategy"
)

const (
	defaultRounds  = 1000
	defaultWorkers = 4
	minPlayers     = 2
)

// Config is the complete simulation configuration.
type Config struct {
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Rules      *RulesSettings      `hcl:"rules,block"`
	Players    []PlayerConfig      `hcl:"player,block"`
}

// SimulationSettings controls how many rounds are played and how. A zero
// Seed asks the caller to pick one.
type SimulationSettings struct {
	Rounds      int    `hcl:"rounds,optional"`
	Seed        int64  `hcl:"seed,optional"`
	Workers     int    `hcl:"workers,optional"`
	Duration    string `hcl:"duration,optional"`
	RotateSeats bool   `hcl:"rotate_seats,optional"`
}

// RulesSettings overrides the per-round rules.
type RulesSettings struct {
	HandSize int  `hcl:"hand_size,optional"`
	MaxTurns *int `hcl:"max_turns,optional"`
}

// PlayerConfig is one seat at the table.
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
}

// DefaultConfig seats one player per built-in strategy.
func DefaultConfig() *Config {
	rules := rummy.DefaultRules()
	cfg := &Config{
		Simulation: &SimulationSettings{
			Rounds:  defaultRounds,
			Workers: defaultWorkers,
		},
		Rules: &RulesSettings{HandSize: rules.HandSize, MaxTurns: &rules.MaxTurns},
	}
	for _, name := range strategy.Names() {
		cfg.Players = append(cfg.Players, PlayerConfig{Name: name, Strategy: name})
	}
	return cfg
}

// Load reads the configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Rounds == 0 && c.Simulation.Duration == "" {
		c.Simulation.Rounds = defaultRounds
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = defaultWorkers
	}

	defaults := rummy.DefaultRules()
	if c.Rules == nil {
		c.Rules = &RulesSettings{}
	}
	if c.Rules.HandSize == 0 {
		c.Rules.HandSize = defaults.HandSize
	}
	if c.Rules.MaxTurns == nil {
		c.Rules.MaxTurns = &defaults.MaxTurns
	}

	if len(c.Players) == 0 {
		c.Players = DefaultConfig().Players
	}
}

// Validate checks the configuration for values the simulator cannot run.
func (c *Config) Validate() error {
	if c.Simulation == nil {
		return fmt.Errorf("simulation settings are missing")
	}
	if c.Simulation.Rounds < 0 {
		return fmt.Errorf("rounds must not be negative, got %d", c.Simulation.Rounds)
	}
	duration, err := c.Duration()
	if err != nil {
		return err
	}
	if c.Simulation.Rounds == 0 && duration == 0 {
		return fmt.Errorf("either rounds or duration must be set")
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Simulation.Workers)
	}

	if len(c.Players) < minPlayers {
		return fmt.Errorf("at least %d players must be configured, got %d", minPlayers, len(c.Players))
	}
	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.Name] {
			return fmt.Errorf("player %s: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if !strategy.Exists(p.Strategy) {
			return fmt.Errorf("player %s: invalid strategy %s (known: %v)", p.Name, p.Strategy, strategy.Names())
		}
	}

	if err := c.RoundRules().Validate(len(c.Players), deck.StandardSize); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// Duration returns the parsed time budget, or 0 when the simulation is
// bounded by a round count.
func (c *Config) Duration() (time.Duration, error) {
	if c.Simulation == nil || c.Simulation.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Simulation.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", c.Simulation.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", d)
	}
	return d, nil
}

// RoundRules returns the rules every round is played with.
func (c *Config) RoundRules() rummy.Rules {
	rules := rummy.DefaultRules()
	if c.Rules != nil {
		if c.Rules.HandSize != 0 {
			rules.HandSize = c.Rules.HandSize
		}
		if c.Rules.MaxTurns != nil {
			rules.MaxTurns = *c.Rules.MaxTurns
		}
	}
	return rules
}
