package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

// Config represents the complete backtest configuration
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Exit     ExitConfig     `json:"exit" yaml:"exit"`
	Universe UniverseConfig `json:"universe" yaml:"universe"`
	Runner   RunnerConfig   `json:"runner" yaml:"runner"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// DataConfig locates the bar files on disk
type DataConfig struct {
	Dir       string `json:"dir" yaml:"dir"`
	NamesFile string `json:"names_file,omitempty" yaml:"names_file,omitempty"`
}

// StrategyConfig names the registered predicate and its parameters
type StrategyConfig struct {
	Name   string        `json:"name" yaml:"name"`
	Params signal.Config `json:"params,omitempty" yaml:"params,omitempty"`
}

// Predicate constructs the configured signal predicate
func (s StrategyConfig) Predicate() (signal.Predicate, error) {
	return signal.New(s.Name, s.Params)
}

// ExitConfig selects the exit policy; only the fields of the chosen
// policy are read
type ExitConfig struct {
	Policy    string  `json:"policy" yaml:"policy"` // "fixed_horizon", "stop_target" or "trend_break"
	Days      int     `json:"days,omitempty" yaml:"days,omitempty"`
	StopPct   float64 `json:"stop_pct,omitempty" yaml:"stop_pct,omitempty"`
	TargetPct float64 `json:"target_pct,omitempty" yaml:"target_pct,omitempty"`
	MaxDays   int     `json:"max_days,omitempty" yaml:"max_days,omitempty"`
	MAPeriod  int     `json:"ma_period,omitempty" yaml:"ma_period,omitempty"`
}

// Build constructs and validates the configured exit policy
func (e ExitConfig) Build() (sim.ExitPolicy, error) {
	var p sim.ExitPolicy
	switch e.Policy {
	case "fixed_horizon":
		p = sim.FixedHorizon{Days: e.Days}
	case "stop_target":
		p = sim.StopLossTakeProfit{StopPct: e.StopPct, TargetPct: e.TargetPct, MaxDays: e.MaxDays}
	case "trend_break":
		p = sim.TrendBreak{MAPeriod: e.MAPeriod}
	default:
		return nil, fmt.Errorf("unknown exit policy: %q", e.Policy)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// UniverseConfig contains the instrument admission rules
type UniverseConfig struct {
	MinClose        float64  `json:"min_close" yaml:"min_close"`
	MaxClose        float64  `json:"max_close" yaml:"max_close"`
	ExcludeST       bool     `json:"exclude_st" yaml:"exclude_st"`
	ExcludePrefixes []string `json:"exclude_prefixes,omitempty" yaml:"exclude_prefixes,omitempty"`
	AllowPrefixes   []string `json:"allow_prefixes,omitempty" yaml:"allow_prefixes,omitempty"`
}

// Filter converts the section into the market-level filter
func (u UniverseConfig) Filter() market.UniverseFilter {
	return market.UniverseFilter{
		MinClose:        u.MinClose,
		MaxClose:        u.MaxClose,
		ExcludeST:       u.ExcludeST,
		ExcludePrefixes: u.ExcludePrefixes,
		AllowPrefixes:   u.AllowPrefixes,
	}
}

// RunnerConfig contains driver parallelism parameters; zero workers
// means one per CPU
type RunnerConfig struct {
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if _, err := c.Strategy.Predicate(); err != nil {
		return err
	}
	if _, err := c.Exit.Build(); err != nil {
		return err
	}
	if c.Universe.MinClose < 0 || (c.Universe.MaxClose > 0 && c.Universe.MaxClose < c.Universe.MinClose) {
		return fmt.Errorf("universe price band [%v, %v] is inverted", c.Universe.MinClose, c.Universe.MaxClose)
	}
	if c.Runner.Workers < 0 {
		return fmt.Errorf("runner.workers must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "./data",
		},
		Strategy: StrategyConfig{
			Name: "oversold-reversal",
		},
		Exit: ExitConfig{
			Policy: "fixed_horizon",
			Days:   10,
		},
		Universe: UniverseConfig{
			MinClose:        5,
			MaxClose:        20,
			ExcludeST:       true,
			ExcludePrefixes: []string{"30", "688", "8"},
			AllowPrefixes:   []string{"6", "0"},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./screener.db",
		},
	}
}
