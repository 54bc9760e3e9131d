package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"energy-dashboard/internal/backtest"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/logger"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/playback"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/strategy"
)

// Config is the on-disk configuration shape (YAML or TOML).
type Config struct {
	Log       logger.Config   `yaml:"log" toml:"log"`
	Generator GeneratorConfig `yaml:"generator" toml:"generator"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Tokens    TokensConfig    `yaml:"tokens" toml:"tokens"`
	Dataset   DatasetConfig   `yaml:"dataset" toml:"dataset"`
	Playback  PlaybackConfig  `yaml:"playback" toml:"playback"`
	Backtest  BacktestConfig  `yaml:"backtest" toml:"backtest"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
}

type GeneratorConfig struct {
	TimeGranularity  string `yaml:"time_granularity" toml:"time_granularity" default:"daily"`
	ComparisonPeriod string `yaml:"comparison_period" toml:"comparison_period" default:"previous"`
	// Seed 0 draws a time-based seed.
	Seed     int64  `yaml:"seed" toml:"seed"`
	Timezone string `yaml:"timezone" toml:"timezone" default:"Local"`
}

type StorageConfig struct {
	Capacity float64 `yaml:"capacity" toml:"capacity" default:"500" validate:"gt=0"`
	// InitialLevel 0 draws a starting level uniformly from [200, 300].
	InitialLevel float64 `yaml:"initial_level" toml:"initial_level" validate:"gte=0"`
	Efficiency   float64 `yaml:"efficiency" toml:"efficiency" default:"0.8" validate:"gt=0,lte=1"`
}

type TokensConfig struct {
	InitialBalance float64 `yaml:"initial_balance" toml:"initial_balance" default:"5000"`
	EarnRate       float64 `yaml:"earn_rate" toml:"earn_rate" default:"2.5" validate:"gte=0"`
	BurnRate       float64 `yaml:"burn_rate" toml:"burn_rate" default:"1.2" validate:"gte=0"`
	GridBurnRate   float64 `yaml:"grid_burn_rate" toml:"grid_burn_rate" default:"0.8" validate:"gte=0"`
}

type DatasetConfig struct {
	Path         string              `yaml:"path" toml:"path"`
	Variant      string              `yaml:"variant" toml:"variant" default:"strict" validate:"oneof=strict relaxed"`
	StorageUnits []model.StorageUnit `yaml:"storage_units" toml:"storage_units" validate:"dive"`
}

type PlaybackConfig struct {
	Interval  time.Duration `yaml:"interval" toml:"interval" default:"500ms" validate:"gt=0"`
	Threshold float64       `yaml:"threshold" toml:"threshold" default:"0.05" validate:"gt=0"`
}

type BacktestConfig struct {
	Strategy       StrategyConfig `yaml:"strategy" toml:"strategy"`
	EnergyScale    float64        `yaml:"energy_scale" toml:"energy_scale" default:"0.05" validate:"gt=0"`
	InitialBalance float64        `yaml:"initial_balance" toml:"initial_balance" default:"100"`
	GridPrice      float64        `yaml:"grid_price" toml:"grid_price" default:"0.3" validate:"gte=0"`
	GainRate       float64        `yaml:"gain_rate" toml:"gain_rate" default:"0.5" validate:"gte=0"`
	BurnRate       float64        `yaml:"burn_rate" toml:"burn_rate" default:"0.2" validate:"gte=0"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name" toml:"name" default:"rule"`
	Params map[string]any `yaml:"params" toml:"params"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" toml:"port" default:"8080" validate:"gt=0,lte=65535"`
	Environment string   `yaml:"environment" toml:"environment" default:"development"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
	StaticDir   string   `yaml:"static_dir" toml:"static_dir"`
}

var validate = validator.New()

// Default returns a fully defaulted configuration, used when no file is given.
func Default() (*Config, error) {
	c := &Config{}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads, defaults and validates a config file. The format is
// chosen by extension: .toml for TOML, anything else for YAML.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadUnchecked loads and defaults config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	// Relative dataset paths are resolved against the config file.
	if c.Dataset.Path != "" && !filepath.IsAbs(c.Dataset.Path) {
		cand := filepath.Join(filepath.Dir(path), c.Dataset.Path)
		if _, err := os.Stat(cand); err == nil {
			c.Dataset.Path = cand
		}
	}
	return &c, nil
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Dataset.StorageUnits) == 0 {
		c.Dataset.StorageUnits = model.DefaultStorageUnits()
	}
	return nil
}

// ApplyEnv overlays API_PORT, API_ENV and DATASET_PATH.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		c.Dataset.Path = v
	}
	return nil
}

// Validate checks struct tags first, then the selectors and values
// that need domain parsing.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := model.ParseGranularity(c.Generator.TimeGranularity); err != nil {
		return fmt.Errorf("generator.time_granularity: %w", err)
	}
	if _, err := model.ParseComparisonPeriod(c.Generator.ComparisonPeriod); err != nil {
		return fmt.Errorf("generator.comparison_period: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("generator.timezone: %w", err)
	}
	if c.Storage.InitialLevel > c.Storage.Capacity {
		return errors.New("storage.initial_level must be within [0, capacity]")
	}
	if _, err := data.BuildSchema(data.Variant(c.Dataset.Variant), c.Dataset.StorageUnits); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if _, err := strategy.New(c.Backtest.Strategy.Name, c.Backtest.Strategy.Params); err != nil {
		return fmt.Errorf("backtest.strategy: %w", err)
	}
	return nil
}

func (c *Config) Granularity() (model.Granularity, error) {
	return model.ParseGranularity(c.Generator.TimeGranularity)
}

func (c *Config) Comparison() (model.ComparisonPeriod, error) {
	return model.ParseComparisonPeriod(c.Generator.ComparisonPeriod)
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Generator.Timezone)
}

// Seed returns the configured seed, or a time-based one when unset.
func (c *Config) Seed() int64 {
	if c.Generator.Seed != 0 {
		return c.Generator.Seed
	}
	return time.Now().UnixNano()
}

func (c *Config) SimulationParams() simulation.Params {
	p := simulation.DefaultParams()
	p.Storage.Capacity = c.Storage.Capacity
	p.Storage.Efficiency = c.Storage.Efficiency
	if c.Storage.InitialLevel > 0 {
		p.Storage.InitialLevel = c.Storage.InitialLevel
		p.RandomInitialLevel = false
	}
	p.Ledger.InitialBalance = c.Tokens.InitialBalance
	p.Ledger.EarnRate = c.Tokens.EarnRate
	p.Ledger.BurnRate = c.Tokens.BurnRate
	p.Ledger.GridBurnRate = c.Tokens.GridBurnRate
	return p
}

func (c *Config) Variant() data.Variant { return data.Variant(c.Dataset.Variant) }

func (c *Config) Validator() (*data.Validator, error) {
	return data.NewValidator(c.Variant(), c.Dataset.StorageUnits)
}

func (c *Config) BacktestRates() backtest.Rates {
	return backtest.Rates{
		GridPrice:      c.Backtest.GridPrice,
		GainRate:       c.Backtest.GainRate,
		BurnRate:       c.Backtest.BurnRate,
		InitialBalance: c.Backtest.InitialBalance,
	}
}

func (c *Config) PlaybackOptions() playback.Options {
	return playback.Options{Interval: c.Playback.Interval, Threshold: c.Playback.Threshold}
}
