package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopology(t *testing.T) {
	tests := map[string]Topology{
		"":         Bounded,
		"bounded":  Bounded,
		"Toroidal": Toroidal,
		"wrap":     Toroidal,
	}
	for name, want := range tests {
		got, err := ParseTopology(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseTopology("klein")
	assert.True(t, errors.Is(err, ErrUnknownTopology))
}

// A blinker lying on the top edge loses its upper birth when the grid is
// bounded and wraps it onto the bottom row when the grid is a torus.
func TestEdgePolicy_TopRowBlinker(t *testing.T) {
	edge := []cell{{0, 1}, {0, 2}, {0, 3}}

	bounded := newTestGrid(t, 5, 5)
	setAlive(bounded, edge...)
	bounded.Tick()
	assert.Equal(t, []cell{{0, 2}, {1, 2}}, aliveCells(bounded))

	torus := newTestGrid(t, 5, 5, WithTopology(Toroidal))
	setAlive(torus, edge...)
	torus.Tick()
	assert.Equal(t, []cell{{0, 2}, {1, 2}, {4, 2}}, aliveCells(torus))
}

// The four corners of a torus touch each other and form a block.
func TestEdgePolicy_Corners(t *testing.T) {
	corners := []cell{{0, 0}, {0, 3}, {3, 0}, {3, 3}}

	bounded := newTestGrid(t, 4, 4)
	setAlive(bounded, corners...)
	bounded.Tick()
	assert.Zero(t, bounded.CountLivingCells())

	torus := newTestGrid(t, 4, 4, WithTopology(Toroidal))
	setAlive(torus, corners...)
	for range 4 {
		torus.Tick()
		assert.Equal(t, corners, aliveCells(torus))
	}
}
