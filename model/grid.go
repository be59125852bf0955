package model

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/bitlife/rules"
)

const (
	// wordBits is the width of one packed storage word
	wordBits = 64
	// historySize is how many recent hashes are kept for cycle detection
	historySize = 5
)

// TickStats summarizes the transitions of the most recent generation
type TickStats struct {
	Births int
	Deaths int
}

func (s *TickStats) record(t rules.Transition) {
	switch t {
	case rules.Birth:
		s.Births++
	case rules.Underpopulation, rules.Overpopulation:
		s.Deaths++
	}
}

// Grid is a fixed-size Life board stored one bit per cell in row-major order.
// A Grid has a single owner: mutating calls must not run concurrently.
type Grid struct {
	width    int
	height   int
	topology Topology
	cells    *bitset.BitSet
	spare    *bitset.BitSet // scratch buffer when no pool is attached
	pool     *BufferPool
	history  []string // Store recent grid states for cycle detection
	last     TickStats
}

// Option customizes a Grid at construction
type Option func(*Grid)

// WithTopology sets the edge policy used by neighbor counting
func WithTopology(t Topology) Option {
	return func(g *Grid) { g.topology = t }
}

// WithBufferPool makes Tick draw its scratch buffers from pool
func WithBufferPool(pool *BufferPool) Option {
	return func(g *Grid) { g.pool = pool }
}

// NewGrid creates an all-dead grid with the specified dimensions
func NewGrid(width, height int, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewGrid] got %dx%d", width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  bitset.New(uint(width * height)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

// Topology returns the edge policy of the grid
func (g *Grid) Topology() Topology {
	return g.topology
}

// Size returns the total number of cells
func (g *Grid) Size() int {
	return g.width * g.height
}

// Cells returns a copy of the packed storage. Bit i%64 of word i/64 holds the
// cell at linear index i; trailing bits of the last word are always zero.
func (g *Grid) Cells() []uint64 {
	words := g.cells.Bytes()
	out := make([]uint64, len(words))
	copy(out, words)
	return out
}

// LastTick returns the transition counts of the latest Tick
func (g *Grid) LastTick() TickStats {
	return g.last
}

// offset maps a coordinate to its linear index
func (g *Grid) offset(row, col int) uint {
	return uint(row*g.width + col)
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Get returns the state of a cell, off-grid cells read as dead
func (g *Grid) Get(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return g.cells.Test(g.offset(row, col))
}

// Set sets a cell to alive (true) or dead (false); off-grid writes are dropped
// so patterns can be stamped partially over an edge
func (g *Grid) Set(row, col int, alive bool) {
	if g.inBounds(row, col) {
		g.cells.SetTo(g.offset(row, col), alive)
	}
}

// ToggleCell flips a single cell
func (g *Grid) ToggleCell(row, col int) error {
	if !g.inBounds(row, col) {
		return errors.Wrapf(ErrOutOfRange, "[ToggleCell] (%d, %d) on %dx%d grid", row, col, g.width, g.height)
	}
	g.cells.Flip(g.offset(row, col))
	return nil
}

// SetBlank kills every cell
func (g *Grid) SetBlank() {
	g.cells.ClearAll()
	g.history = nil
	g.last = TickStats{}
}

// liveNeighborCount counts the live cells among the eight around (row, col)
func (g *Grid) liveNeighborCount(row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue // Skip the cell itself
			}
			r, c, ok := g.topology.resolve(row+dr, col+dc, g.height, g.width)
			if ok && g.cells.Test(g.offset(r, c)) {
				count++
			}
		}
	}
	return count
}

// advance writes the next state of linear indexes [lo, hi) into next.
// It only reads g.cells, which stays untouched until the swap.
func (g *Grid) advance(next *bitset.BitSet, lo, hi uint) TickStats {
	var stats TickStats
	for i := lo; i < hi; i++ {
		row, col := int(i)/g.width, int(i)%g.width
		t := rules.Classify(g.liveNeighborCount(row, col), g.cells.Test(i))
		next.SetTo(i, t.Alive())
		stats.record(t)
	}
	return stats
}

func (g *Grid) scratch() *bitset.BitSet {
	if g.pool != nil {
		return g.pool.Get(uint(g.Size()))
	}
	if g.spare == nil {
		g.spare = bitset.New(uint(g.Size()))
	}
	return g.spare
}

// swap installs next as the live generation
func (g *Grid) swap(next *bitset.BitSet, stats TickStats) {
	prev := g.cells
	g.cells = next
	g.last = stats
	if g.pool != nil {
		BufferToPool(prev, g.pool)
		return
	}
	g.spare = prev
}

// Tick advances the grid by one generation
func (g *Grid) Tick() {
	next := g.scratch()
	stats := g.advance(next, 0, uint(g.Size()))
	g.swap(next, stats)
}

// TickParallel advances the grid by one generation splitting the work across
// workers goroutines. Stripes are aligned to storage words so no two workers
// write the same word. On cancellation the grid is left at the current
// generation. workers <= 0 uses runtime.NumCPU().
func (g *Grid) TickParallel(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		size           = uint(g.Size())
		words          = (size + wordBits - 1) / wordBits
		wordsPerWorker = (words + uint(workers) - 1) / uint(workers) // Ceiling division
		next           = g.scratch()
		results        = make([]TickStats, workers)
	)

	eg, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		var (
			lo = uint(i) * wordsPerWorker * wordBits
			hi = min(lo+wordsPerWorker*wordBits, size)
		)
		if lo >= size {
			break
		}

		eg.Go(func() error {
			for start := lo; start < hi; start += uint(g.width) {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i].add(g.advance(next, start, min(start+uint(g.width), hi)))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		if g.pool != nil {
			BufferToPool(next, g.pool)
		}
		return errors.Wrap(err, "[TickParallel] generation abandoned")
	}

	var stats TickStats
	for _, r := range results {
		stats.add(r)
	}
	g.swap(next, stats)
	return nil
}

func (s *TickStats) add(o TickStats) {
	s.Births += o.Births
	s.Deaths += o.Deaths
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() int {
	return int(g.cells.Count())
}

// Population returns the fraction of living cells
func (g *Grid) Population() float64 {
	return float64(g.CountLivingCells()) / float64(g.Size())
}

// Equal reports whether both grids have the same shape and cells
func (g *Grid) Equal(other *Grid) bool {
	return other != nil &&
		g.width == other.width &&
		g.height == other.height &&
		g.cells.Equal(other.cells)
}

// Clone returns an independent copy without history or pool
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:    g.width,
		height:   g.height,
		topology: g.topology,
		cells:    g.cells.Clone(),
		last:     g.last,
	}
}

// GetGridHash returns an MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	var buf [8]byte
	for _, w := range g.cells.Bytes() {
		binary.LittleEndian.PutUint64(buf[:], w)
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// UpdateHistory adds current state to history and maintains size
func (g *Grid) UpdateHistory() {
	g.history = append(g.history, g.GetGridHash())

	if len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

// IsStagnant checks if the grid is stuck in a static state or a cycle of
// period up to three, compared against the recorded history
func (g *Grid) IsStagnant() bool {
	if len(g.history) < 3 {
		return false
	}

	current := g.GetGridHash()
	for back := 1; back <= 3; back++ {
		if g.history[len(g.history)-back] == current {
			return true
		}
	}
	return false
}
