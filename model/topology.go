package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Topology decides what a neighbor lookup past the grid edge resolves to
type Topology uint8

const (
	// Bounded treats every off-grid neighbor as permanently dead
	Bounded Topology = iota
	// Toroidal wraps rows and columns around to the opposite edge
	Toroidal
)

func (t Topology) String() string {
	switch t {
	case Bounded:
		return "bounded"
	case Toroidal:
		return "toroidal"
	default:
		return "unknown"
	}
}

// ParseTopology maps a config name to a Topology
func ParseTopology(name string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bounded":
		return Bounded, nil
	case "toroidal", "torus", "wrap":
		return Toroidal, nil
	default:
		return Bounded, errors.Wrapf(ErrUnknownTopology, "[ParseTopology] %q", name)
	}
}

// resolve maps a possibly off-grid coordinate onto the grid.
// ok is false when the coordinate has no cell under this topology.
func (t Topology) resolve(row, col, height, width int) (r, c int, ok bool) {
	if t == Toroidal {
		return (row + height) % height, (col + width) % width, true
	}
	if row < 0 || row >= height || col < 0 || col >= width {
		return 0, 0, false
	}
	return row, col, true
}
