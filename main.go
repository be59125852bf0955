package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/bitlife/model"
	"github.com/sheikhrachel/bitlife/utils"
	"github.com/sheikhrachel/bitlife/viewer"
)

const defaultConfigPath = "config.json"

// ExitError carries the process exit code for a failed run
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	// Use a minimal logger until the configured one is built
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, loads the config and drives either the terminal loop or
// the interactive viewer until it finishes or ctx is cancelled
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("bitlife", flag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.Usage = func() {
		fmt.Fprint(out, "Usage:\n  bitlife [options]\n\nOptions:\n")
		flagSet.PrintDefaults()
	}

	var (
		configPath  = flagSet.String("config", defaultConfigPath, "Path to a .json or .hcl config file.")
		interactive = flagSet.Bool("interactive", false, "Open the interactive terminal viewer.")
		logLevel    = flagSet.String("log-level", "", "Override the log level: 'debug', 'info', 'warn', 'error'.")
		logFormat   = flagSet.String("log-format", "", "Override the log format: 'text' or 'json'.")
	)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("using default configuration", "path", *configPath)
		config = utils.DefaultConfig()
	case err != nil:
		return &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "interactive":
			config.Interactive = *interactive
		case "log-level":
			config.LogLevel = *logLevel
		case "log-format":
			config.LogFormat = *logFormat
		}
	})

	if err := config.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	logger, err := utils.NewLogger(config.LogLevel, config.LogFormat, errOut)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	seed := config.RandomSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Debug("random source ready", "seed", seed)
	rng := model.NewRandomSource(seed)

	if config.Interactive {
		return runInteractive(ctx, config, rng, logger)
	}
	return runGame(ctx, out, config, rng, logger)
}

// runInteractive hands the grid to the tcell viewer
func runInteractive(ctx context.Context, config utils.Config, rng model.RandomSource, logger *slog.Logger) error {
	grid, _, err := newSeededGrid(config, rng)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to open terminal")
	}
	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "[runInteractive] failed to initialize terminal")
	}
	defer screen.Fini()
	screen.EnableMouse()

	v := viewer.New(screen, grid, viewer.Options{
		LivingChance: config.LivingChance,
		FrameRate:    config.FrameRate,
		Rand:         rng,
		Logger:       logger,
	})
	if err = v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
