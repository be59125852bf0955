package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/bitlife/model"
)

// Config holds the configuration for the runner
type Config struct {
	Width               int           `json:"width"`
	Height              int           `json:"height"`
	Topology            string        `json:"topology"`
	Seed                string        `json:"seed"`
	LivingChance        float64       `json:"living_chance"`
	RandomSeed          uint64        `json:"random_seed"` // 0 draws a fresh seed
	FrameRate           time.Duration `json:"frame_rate"`
	MaxGenerations      int           `json:"max_generations"`
	UseParallel         bool          `json:"use_parallel"`
	Workers             int           `json:"workers"`
	UseMemoryPool       bool          `json:"use_memory_pool"`
	AutoRestart         bool          `json:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	InjectionCount      int           `json:"injection_count"`
	Interactive         bool          `json:"interactive"`
	LogLevel            string        `json:"log_level"`
	LogFormat           string        `json:"log_format"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               64,
		Height:              32,
		Topology:            model.Bounded.String(),
		Seed:                string(model.SeedPatterns),
		LivingChance:        0.15,
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      1000,
		UseParallel:         true,
		UseMemoryPool:       true,
		AutoRestart:         true,
		StagnationThreshold: 5,
		InjectionCount:      3,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// hclConfig mirrors Config for HCL files; every attribute is optional and
// durations are written as strings such as "150ms"
type hclConfig struct {
	Width               *int     `hcl:"width,optional"`
	Height              *int     `hcl:"height,optional"`
	Topology            *string  `hcl:"topology,optional"`
	Seed                *string  `hcl:"seed,optional"`
	LivingChance        *float64 `hcl:"living_chance,optional"`
	RandomSeed          *int64   `hcl:"random_seed,optional"`
	FrameRate           *string  `hcl:"frame_rate,optional"`
	MaxGenerations      *int     `hcl:"max_generations,optional"`
	UseParallel         *bool    `hcl:"use_parallel,optional"`
	Workers             *int     `hcl:"workers,optional"`
	UseMemoryPool       *bool    `hcl:"use_memory_pool,optional"`
	AutoRestart         *bool    `hcl:"auto_restart,optional"`
	StagnationThreshold *int     `hcl:"stagnation_threshold,optional"`
	InjectionCount      *int     `hcl:"injection_count,optional"`
	Interactive         *bool    `hcl:"interactive,optional"`
	LogLevel            *string  `hcl:"log_level,optional"`
	LogFormat           *string  `hcl:"log_format,optional"`
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (h hclConfig) apply(config *Config) error {
	assign(&config.Width, h.Width)
	assign(&config.Height, h.Height)
	assign(&config.Topology, h.Topology)
	assign(&config.Seed, h.Seed)
	assign(&config.LivingChance, h.LivingChance)
	assign(&config.MaxGenerations, h.MaxGenerations)
	assign(&config.UseParallel, h.UseParallel)
	assign(&config.Workers, h.Workers)
	assign(&config.UseMemoryPool, h.UseMemoryPool)
	assign(&config.AutoRestart, h.AutoRestart)
	assign(&config.StagnationThreshold, h.StagnationThreshold)
	assign(&config.InjectionCount, h.InjectionCount)
	assign(&config.Interactive, h.Interactive)
	assign(&config.LogLevel, h.LogLevel)
	assign(&config.LogFormat, h.LogFormat)

	if h.RandomSeed != nil {
		if *h.RandomSeed < 0 {
			return errors.Errorf("random_seed must not be negative, got %d", *h.RandomSeed)
		}
		config.RandomSeed = uint64(*h.RandomSeed)
	}
	if h.FrameRate != nil {
		d, err := time.ParseDuration(*h.FrameRate)
		if err != nil {
			return errors.Wrap(err, "frame_rate")
		}
		config.FrameRate = d
	}
	return nil
}

// LoadConfig loads configuration from a JSON or, for .hcl paths, an HCL file.
// Attributes missing from the file keep their defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	if strings.EqualFold(filepath.Ext(filename), ".hcl") {
		return loadHCL(filename, config)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

func loadHCL(filename string, config Config) (Config, error) {
	if _, err := os.Stat(filename); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	file, diags := hclparse.NewParser().ParseHCLFile(filename)
	if diags.HasErrors() {
		return config, errors.Wrapf(diags, "[LoadConfig] failed to parse HCL file: %+v", filename)
	}

	var parsed hclConfig
	if diags = gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return config, errors.Wrapf(diags, "[LoadConfig] failed to decode HCL file: %+v", filename)
	}

	if err := parsed.apply(&config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid value in file: %+v", filename)
	}
	return config, nil
}

// Validate checks the config can build a grid and seed it
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(model.ErrInvalidDimensions, "[Validate] got %dx%d", c.Width, c.Height)
	}
	if _, err := model.ParseTopology(c.Topology); err != nil {
		return errors.Wrap(err, "[Validate]")
	}
	seed, err := model.ParseSeedStrategy(c.Seed)
	if err != nil {
		return errors.Wrap(err, "[Validate]")
	}
	if (seed == model.SeedRandom || seed == model.SeedPatterns || c.Interactive) &&
		!(c.LivingChance > 0 && c.LivingChance < 1) {
		return errors.Wrapf(model.ErrInvalidProbability, "[Validate] living_chance %v", c.LivingChance)
	}
	if c.FrameRate < 0 {
		return errors.Errorf("[Validate] frame_rate must not be negative, got %v", c.FrameRate)
	}
	if c.Workers < 0 {
		return errors.Errorf("[Validate] workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// GridOptions translates the config into grid construction options
func (c Config) GridOptions(pool *model.BufferPool) []model.Option {
	topology, _ := model.ParseTopology(c.Topology)
	opts := []model.Option{model.WithTopology(topology)}
	if pool != nil {
		opts = append(opts, model.WithBufferPool(pool))
	}
	return opts
}

// SeedOptions translates the config into seed options drawing from rng
func (c Config) SeedOptions(rng model.RandomSource) model.SeedOptions {
	strategy, _ := model.ParseSeedStrategy(c.Seed)
	return model.SeedOptions{
		Strategy:     strategy,
		LivingChance: c.LivingChance,
		Rand:         rng,
	}
}
