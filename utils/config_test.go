package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/bitlife/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"width": 20,
		"height": 10,
		"topology": "toroidal",
		"seed": "random",
		"living_chance": 0.3,
		"random_seed": 12,
		"frame_rate": 50000000
	}`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, config.Width)
	assert.Equal(t, 10, config.Height)
	assert.Equal(t, "toroidal", config.Topology)
	assert.Equal(t, "random", config.Seed)
	assert.Equal(t, 0.3, config.LivingChance)
	assert.Equal(t, uint64(12), config.RandomSeed)
	assert.Equal(t, 50*time.Millisecond, config.FrameRate)
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().StagnationThreshold, config.StagnationThreshold)
	require.NoError(t, config.Validate())
}

func TestLoadConfig_HCL(t *testing.T) {
	path := writeFile(t, "life.hcl", `
width         = 48
height        = 24
topology      = "bounded"
seed          = "pattern"
random_seed   = 99
frame_rate    = "80ms"
use_parallel  = false
workers       = 2
log_format    = "json"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 48, config.Width)
	assert.Equal(t, 24, config.Height)
	assert.Equal(t, "pattern", config.Seed)
	assert.Equal(t, uint64(99), config.RandomSeed)
	assert.Equal(t, 80*time.Millisecond, config.FrameRate)
	assert.False(t, config.UseParallel)
	assert.Equal(t, 2, config.Workers)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, DefaultConfig().LivingChance, config.LivingChance)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing json", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("missing hcl", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "config.json", `{"width": "wide"}`))
		assert.ErrorContains(t, err, "failed to unmarshal")
	})

	t.Run("bad hcl syntax", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "life.hcl", `width = `))
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("unknown hcl attribute", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "life.hcl", `colour = "red"`))
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "life.hcl", `frame_rate = "soon"`))
		assert.ErrorContains(t, err, "frame_rate")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, model.ErrInvalidDimensions},
		{"negative height", func(c *Config) { c.Height = -3 }, model.ErrInvalidDimensions},
		{"topology", func(c *Config) { c.Topology = "sphere" }, model.ErrUnknownTopology},
		{"seed", func(c *Config) { c.Seed = "spiral" }, model.ErrUnknownSeed},
		{"chance", func(c *Config) { c.Seed = "random"; c.LivingChance = 1 }, model.ErrInvalidProbability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	t.Run("blank seed ignores chance", func(t *testing.T) {
		config := DefaultConfig()
		config.Seed = "blank"
		config.LivingChance = 0
		assert.NoError(t, config.Validate())
	})
}

func TestConfigOptions(t *testing.T) {
	config := DefaultConfig()
	config.Topology = "toroidal"
	config.Seed = "pattern"

	g, err := model.NewGrid(config.Width, config.Height, config.GridOptions(model.NewBufferPool())...)
	require.NoError(t, err)
	assert.Equal(t, model.Toroidal, g.Topology())

	opts := config.SeedOptions(nil)
	assert.Equal(t, model.SeedPattern, opts.Strategy)
	require.NoError(t, g.Seed(opts))
	assert.True(t, g.Get(0, 0))
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("debug", "json", os.Stderr)
	require.NoError(t, err)

	_, err = NewLogger("loud", "text", os.Stderr)
	assert.Error(t, err)

	_, err = NewLogger("info", "xml", os.Stderr)
	assert.Error(t, err)
}

func TestStatsUpdate(t *testing.T) {
	s := NewStats()
	s.Update(1, 100, 4, 2, 100*time.Millisecond)
	assert.Equal(t, 100.0, s.AveragePopulation)
	assert.InDelta(t, 10.0, s.GenerationsPerSecond, 1e-9)

	s.Update(2, 200, 1, 1, 0)
	assert.InDelta(t, 110.0, s.AveragePopulation, 1e-9)
	assert.Equal(t, 2, s.TotalGenerations)
	assert.Equal(t, 5, s.TotalBirths)
	assert.Equal(t, 3, s.TotalDeaths)
}
