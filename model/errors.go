package model

import "github.com/pkg/errors"

var (
	// ErrInvalidDimensions is returned when a grid is built with a zero or negative side
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	// ErrOutOfRange is returned when a coordinate falls outside the grid
	ErrOutOfRange = errors.New("cell coordinate out of range")
	// ErrInvalidProbability is returned when a living chance is outside (0, 1)
	ErrInvalidProbability = errors.New("living chance must be within (0, 1)")
	// ErrUnknownTopology is returned when a topology name cannot be parsed
	ErrUnknownTopology = errors.New("unknown topology")
	// ErrUnknownSeed is returned when a seed strategy name cannot be parsed
	ErrUnknownSeed = errors.New("unknown seed strategy")
)
