// Package display renders per-check result blocks to the console.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes check result blocks. Blocks from concurrent checks may
// interleave at block granularity, but each block (glyph, name, streams)
// is built up front and written in a single call under a mutex so it can
// never be garbled.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer for the given writer, colorizing when the
// writer is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{out: out}
	if f, ok := out.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return p
}

// StdoutIsTerminal reports whether standard output is attached to a TTY.
// Checks use it to decide whether to ask their tools for colored output.
func StdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// PrintResult writes one check's block: a check or cross glyph, the check
// name, and on failure the provided streams. Empty streams are dropped so
// a check with no output on one side never prints a stray blank line.
func (p *Printer) PrintResult(name string, passed bool, streams []string) {
	var block strings.Builder

	glyph := "x"
	if passed {
		glyph = "✓"
	}
	if p.color {
		if passed {
			glyph = color.New(color.Bold, color.FgGreen).Sprint(glyph)
		} else {
			glyph = color.New(color.Bold, color.FgRed).Sprint(glyph)
		}
		name = color.New(color.Bold, color.FgBlue).Sprint(name)
	}
	fmt.Fprintf(&block, "%s %s\n", glyph, name)

	for _, stream := range streams {
		stream = strings.TrimSpace(stream)
		if stream != "" {
			fmt.Fprintln(&block, stream)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, block.String())
}

// PrintHint writes a follow-up diagnostic line for a failed check.
func (p *Printer) PrintHint(hint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, hint)
}
