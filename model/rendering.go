package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	glyphAlive = '◼'
	glyphDead  = '◻'

	// ansiClear homes the cursor and erases the screen
	ansiClear = "\033[H\033[2J"
)

// String renders one line per row, ◼ for alive and ◻ for dead
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.Size()*len(string(glyphAlive)) + g.height)
	for row := range g.height {
		for col := range g.width {
			if g.cells.Test(g.offset(row, col)) {
				b.WriteRune(glyphAlive)
			} else {
				b.WriteRune(glyphDead)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

// NewTerminalRenderer creates a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{Out: out}
}

// Display renders the grid with double-width blocks so cells look square
func (r *TerminalRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(r.Out)
	for row := range g.Height() {
		for col := range g.Width() {
			if g.Get(row, col) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := fmt.Fprint(r.Out, ansiClear)
	return err
}
