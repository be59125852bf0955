package model

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

const (
	demoSide = 128
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// globalSource draws from the math/rand/v2 top-level generator
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewRandomSource returns a deterministic source for the given seed
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func sourceOrGlobal(rng RandomSource) RandomSource {
	if rng == nil {
		return globalSource{}
	}
	return rng
}

func validChance(chance float64) bool {
	return chance > 0 && chance < 1
}

// SetRandom refills every cell, each alive independently with probability
// livingChance. A nil rng draws from the process-wide generator.
func (g *Grid) SetRandom(livingChance float64, rng RandomSource) error {
	if !validChance(livingChance) {
		return errors.Wrapf(ErrInvalidProbability, "[SetRandom] got %v", livingChance)
	}
	rng = sourceOrGlobal(rng)

	threshold := 1 - livingChance
	for i := range uint(g.Size()) {
		g.cells.SetTo(i, rng.Float64() >= threshold)
	}
	g.history = nil
	return nil
}

// SetPattern applies the fixed demo pattern: cell i is alive iff i%2 == 0 or i%7 == 0
func (g *Grid) SetPattern() {
	for i := range uint(g.Size()) {
		g.cells.SetTo(i, i%2 == 0 || i%7 == 0)
	}
	g.history = nil
}

// NewDemoGrid creates the 128x128 grid seeded with SetPattern
func NewDemoGrid(opts ...Option) *Grid {
	g, _ := NewGrid(demoSide, demoSide, opts...)
	g.SetPattern()
	return g
}

// SeedStrategy selects how a grid is initialized
type SeedStrategy string

const (
	// SeedBlank leaves every cell dead
	SeedBlank SeedStrategy = "blank"
	// SeedPattern uses the deterministic demo pattern
	SeedPattern SeedStrategy = "pattern"
	// SeedRandom makes each cell alive with the configured chance
	SeedRandom SeedStrategy = "random"
	// SeedPatterns stamps gliders and blinkers then sprinkles random life
	SeedPatterns SeedStrategy = "patterns"
)

// ParseSeedStrategy maps a config name to a SeedStrategy
func ParseSeedStrategy(name string) (SeedStrategy, error) {
	s := SeedStrategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SeedBlank, SeedPattern, SeedRandom, SeedPatterns:
		return s, nil
	case "":
		return SeedPatterns, nil
	default:
		return "", errors.Wrapf(ErrUnknownSeed, "[ParseSeedStrategy] %q", name)
	}
}

// SeedOptions configures Seed
type SeedOptions struct {
	Strategy     SeedStrategy
	LivingChance float64 // used by SeedRandom and SeedPatterns
	Rand         RandomSource
}

// Seed resets the grid according to opts
func (g *Grid) Seed(opts SeedOptions) error {
	switch opts.Strategy {
	case SeedBlank:
		g.SetBlank()
	case SeedPattern:
		g.SetPattern()
	case SeedRandom:
		return errors.Wrap(g.SetRandom(opts.LivingChance, opts.Rand), "[Seed]")
	case SeedPatterns:
		return errors.Wrap(g.resetWithInterestingPatterns(opts.LivingChance, opts.Rand), "[Seed]")
	default:
		return errors.Wrapf(ErrUnknownSeed, "[Seed] %q", opts.Strategy)
	}
	return nil
}

// AddGlider adds a glider pattern with its top-left corner at (row, col)
func (g *Grid) AddGlider(row, col int) {
	pattern := [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for dr, line := range pattern {
		for dc, cell := range line {
			g.Set(row+dr, col+dc, cell)
		}
	}
}

// AddBlinker adds a horizontal blinker oscillator starting at (row, col)
func (g *Grid) AddBlinker(row, col int) {
	g.Set(row, col, true)
	g.Set(row, col+1, true)
	g.Set(row, col+2, true)
}

// AddBlock adds a 2x2 still life with its top-left corner at (row, col)
func (g *Grid) AddBlock(row, col int) {
	g.Set(row, col, true)
	g.Set(row, col+1, true)
	g.Set(row+1, col, true)
	g.Set(row+1, col+1, true)
}

// InjectRandomLife adds some random cells to break stagnation
func (g *Grid) InjectRandomLife(count int, rng RandomSource) {
	rng = sourceOrGlobal(rng)
	for range count {
		g.Set(int(rng.Float64()*float64(g.height)), int(rng.Float64()*float64(g.width)), true)
	}
}

// resetWithInterestingPatterns clears the grid, adds gliders and blinkers
// where they fit and then sprinkles random life on top
func (g *Grid) resetWithInterestingPatterns(livingChance float64, rng RandomSource) error {
	if !validChance(livingChance) {
		return errors.Wrapf(ErrInvalidProbability, "[resetWithInterestingPatterns] got %v", livingChance)
	}
	rng = sourceOrGlobal(rng)
	g.SetBlank()

	if g.width >= 10 && g.height >= 10 {
		g.AddGlider(5, 5)
		if g.width >= 20 && g.height >= 15 {
			g.AddGlider(5, g.width-8)
		}

		g.AddBlinker(g.height/4, g.width/4)
		if g.width >= 30 {
			g.AddBlinker(3*g.height/4, 3*g.width/4)
		}
	}

	threshold := 1 - livingChance
	for i := range uint(g.Size()) {
		if rng.Float64() >= threshold {
			g.cells.Set(i)
		}
	}
	return nil
}
