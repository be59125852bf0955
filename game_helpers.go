package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/bitlife/model"
	"github.com/sheikhrachel/bitlife/utils"
)

// restartPeriod forces a fresh board every this many generations
const restartPeriod = 200

// newSeededGrid builds the grid described by config and seeds it
func newSeededGrid(config utils.Config, rng model.RandomSource) (*model.Grid, *model.BufferPool, error) {
	var pool *model.BufferPool
	if config.UseMemoryPool {
		pool = model.NewBufferPool()
	}

	grid, err := model.NewGrid(config.Width, config.Height, config.GridOptions(pool)...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[newSeededGrid]")
	}
	if err = grid.Seed(config.SeedOptions(rng)); err != nil {
		return nil, nil, errors.Wrap(err, "[newSeededGrid]")
	}
	return grid, pool, nil
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, rng model.RandomSource, out io.Writer) (
	*model.Grid,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	grid, _, err := newSeededGrid(config, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	return grid, model.NewTerminalRenderer(out), utils.NewStats(), nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, config utils.Config, grid *model.Grid) {
	fmt.Fprintf(out, "Features: Memory Pool: %v, Parallel: %v, Topology: %s, Seed: %s\n",
		config.UseMemoryPool, config.UseParallel, grid.Topology(), config.Seed)
	fmt.Fprintf(out, "Grid: %dx%d | Initial living cells: %d\n",
		grid.Width(), grid.Height(), grid.CountLivingCells())
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(out)
}

// updateGameState updates the game state and returns status information
func updateGameState(
	grid *model.Grid,
	generation int,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, float64, string, bool) {
	livingCells := grid.CountLivingCells()
	density := grid.Population() * 100

	// Update performance stats
	last := grid.LastTick()
	stats.Update(generation, livingCells, last.Births, last.Deaths, time.Since(lastFrameTime))

	// Compare against history before recording the current state
	isStagnant := grid.IsStagnant()
	grid.UpdateHistory()

	status := "Active"
	if isStagnant {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	out io.Writer,
	generation, livingCells int,
	density float64,
	status string,
	grid *model.Grid,
	stats *utils.Stats,
	lastRestartGen int,
) {
	last := grid.LastTick()
	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Births: %d | Deaths: %d | Status: %s\n",
		generation, livingCells, density, last.Births, last.Deaths, status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())

	// Show time since last restart
	if generation > lastRestartGen {
		fmt.Fprintf(out, "Generations since restart: %d\n", generation-lastRestartGen)
	}
	fmt.Fprintln(out)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	livingCells, stagnantCount, generation int,
	config utils.Config,
) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if generation > 0 && generation%restartPeriod == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// restartGame reseeds the grid in place
func restartGame(grid *model.Grid, config utils.Config, rng model.RandomSource) error {
	if err := grid.Seed(config.SeedOptions(rng)); err != nil {
		return errors.Wrap(err, "[restartGame]")
	}
	return nil
}

// advance computes the next generation the way config asks for
func advance(ctx context.Context, grid *model.Grid, config utils.Config) error {
	if config.UseParallel {
		return grid.TickParallel(ctx, config.Workers)
	}
	grid.Tick()
	return nil
}

// runGame is the terminal game loop
func runGame(
	ctx context.Context,
	out io.Writer,
	config utils.Config,
	rng model.RandomSource,
	logger *slog.Logger,
) error {
	grid, renderer, stats, err := initializeGame(config, rng, out)
	if err != nil {
		return err
	}
	displayGameInfo(out, config, grid)

	var (
		generation     = 0
		stagnantCount  = 0
		lastRestartGen = 0
		lastFrameTime  = time.Now()
	)

	for {
		if ctx.Err() != nil {
			logger.Info("shutting down gracefully",
				"generations", generation,
				"runtime", stats.Runtime().Round(time.Millisecond),
				"gen_per_sec", stats.GenerationsPerSecond,
				"avg_population", stats.AveragePopulation)
			return nil
		}

		frameStart := time.Now()
		if err = renderer.Clear(); err != nil {
			return errors.Wrap(err, "[runGame] render failed")
		}

		livingCells, density, status, isStagnant := updateGameState(grid, generation, lastFrameTime, stats)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		displayGameStatus(out, generation, livingCells, density, status, grid, stats, lastRestartGen)
		if err = renderer.Display(grid); err != nil {
			return errors.Wrap(err, "[runGame] render failed")
		}

		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			logger.Info("reached maximum generations limit", "max_generations", config.MaxGenerations)
			return nil
		}

		shouldRestart, restartReason := checkRestartConditions(livingCells, stagnantCount, generation, config)
		if shouldRestart && config.AutoRestart {
			logger.Info("restarting", "reason", restartReason, "generation", generation)
			if err = restartGame(grid, config, rng); err != nil {
				return err
			}
			stats.Restarts++
			lastRestartGen = generation
			stagnantCount = 0
		} else if stagnantCount >= 2 && stagnantCount < config.StagnationThreshold {
			// Inject some life to try to break the stagnation
			logger.Debug("injecting life", "count", config.InjectionCount, "generation", generation)
			grid.InjectRandomLife(config.InjectionCount, rng)
		}

		if err = advance(ctx, grid, config); err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}
		generation++

		// Wait before next frame
		select {
		case <-ctx.Done():
		case <-time.After(config.FrameRate):
		}
	}
}
