// Package viewer drives a grid interactively in a terminal: play and pause,
// single steps, blank and random resets, a ticks-per-frame control and
// click-to-toggle, all rendered with tcell.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sheikhrachel/bitlife/model"
)

const (
	minTicksPerFrame = 1
	maxTicksPerFrame = 10

	defaultFrameRate = 100 * time.Millisecond
	defaultChance    = 0.25

	// cellColumns is how many terminal columns one cell occupies
	cellColumns = 2
)

var (
	aliveStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Options configures a Viewer
type Options struct {
	LivingChance float64            // chance used by the random reset
	FrameRate    time.Duration      // delay between frames while playing
	Rand         model.RandomSource // nil uses the process-wide generator
	Logger       *slog.Logger
	Notify       func(msg string) // called after resets, may be nil
}

// Viewer owns the screen loop for one grid
type Viewer struct {
	screen        tcell.Screen
	grid          *model.Grid
	opts          Options
	logger        *slog.Logger
	paused        bool
	ticksPerFrame int
	generation    int
	lastButtons   tcell.ButtonMask
}

// New creates a paused viewer. The caller initializes and finalizes screen.
func New(screen tcell.Screen, grid *model.Grid, opts Options) *Viewer {
	if opts.FrameRate <= 0 {
		opts.FrameRate = defaultFrameRate
	}
	if opts.LivingChance <= 0 || opts.LivingChance >= 1 {
		opts.LivingChance = defaultChance
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Viewer{
		screen:        screen,
		grid:          grid,
		opts:          opts,
		logger:        logger,
		paused:        true,
		ticksPerFrame: minTicksPerFrame,
	}
}

// Generation returns the number of ticks since the last reset
func (v *Viewer) Generation() int {
	return v.generation
}

// Paused reports whether the simulation is stopped
func (v *Viewer) Paused() bool {
	return v.paused
}

// Run processes input and frames until the user quits or ctx is done
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.opts.FrameRate)
	defer ticker.Stop()

	v.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if quit := v.handleEvent(ev); quit {
				v.logger.Info("viewer closed", "generation", v.generation)
				return nil
			}
			v.draw()
		case <-ticker.C:
			if v.paused {
				continue
			}
			v.step(v.ticksPerFrame)
			v.draw()
		}
	}
}

func (v *Viewer) step(n int) {
	for range n {
		v.grid.Tick()
		v.generation++
	}
}

// handleEvent applies one input event and reports whether to quit
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case ' ':
		v.paused = !v.paused
	case 'n':
		if v.paused {
			v.step(1)
		}
	case 'b':
		v.paused = true
		v.grid.SetBlank()
		v.generation = 0
		v.notify("grid reset to blank")
	case 'r':
		v.paused = true
		if err := v.grid.SetRandom(v.opts.LivingChance, v.opts.Rand); err != nil {
			v.logger.Error("random reset failed", "error", err)
			return false
		}
		v.generation = 0
		v.notify(fmt.Sprintf("grid reset to random with %.0f%% alive chance", v.opts.LivingChance*100))
	case '+', '=':
		v.ticksPerFrame = min(v.ticksPerFrame+1, maxTicksPerFrame)
	case '-', '_':
		v.ticksPerFrame = max(v.ticksPerFrame-1, minTicksPerFrame)
	}
	return false
}

// handleMouse toggles the cell under the pointer on a fresh left press
func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && v.lastButtons&tcell.Button1 == 0
	v.lastButtons = buttons
	if !pressed {
		return
	}

	x, y := ev.Position()
	row, col := y, x/cellColumns
	if err := v.grid.ToggleCell(row, col); err != nil {
		v.logger.Debug("click outside grid", "row", row, "col", col)
	}
}

func (v *Viewer) notify(msg string) {
	v.logger.Info(msg)
	if v.opts.Notify != nil {
		v.opts.Notify(msg)
	}
}

func (v *Viewer) status() string {
	state := "playing"
	if v.paused {
		state = "paused"
	}
	return fmt.Sprintf(" gen %d | alive %d | %d tick/frame | %s | space play  n step  b blank  r random  +/- speed  q quit ",
		v.generation, v.grid.CountLivingCells(), v.ticksPerFrame, state)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	for row := range v.grid.Height() {
		for col := range v.grid.Width() {
			glyph := ' '
			if v.grid.Get(row, col) {
				glyph = '█'
			}
			for i := range cellColumns {
				v.screen.SetContent(col*cellColumns+i, row, glyph, nil, aliveStyle)
			}
		}
	}
	for i, r := range []rune(v.status()) {
		v.screen.SetContent(i, v.grid.Height(), r, nil, statusStyle)
	}
	v.screen.Show()
}
