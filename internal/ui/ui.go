// Package ui renders pipeline progress to stderr with raw ANSI escapes.
// Everything goes to stderr so stdout stays clean for serialized dasha text
// and machine-readable output.
package ui

import (
	"fmt"
	"os"

	"github.com/jatakam/dashatree/internal/dasha"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

type Printer struct {
	// Quiet suppresses everything except errors.
	Quiet bool
}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Banner() {
	if p.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╔═══════════════════════════════════╗"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ║"+reset+bold+"  DASHATREE "+dim+"period-tree extractor"+reset+bold+cyan+"  ║"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╚═══════════════════════════════════╝"+reset)
	fmt.Fprintln(os.Stderr)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

func (p *Printer) ChartStart(person, source string) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, cyan+"◆ chart"+reset+" %s "+dim+"(%s)"+reset+"\n", person, source)
}

func (p *Printer) SystemStart(system string) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, blue+bold+"▶ %s"+reset+dim+" building..."+reset+"\n", system)
}

func (p *Printer) SystemDone(system string, mahadashas int, roundTripOK bool) {
	if p.Quiet {
		return
	}
	verdict := green + "round trip ok" + reset
	if !roundTripOK {
		verdict = red + bold + "round trip MISMATCH" + reset
	}
	fmt.Fprintf(os.Stderr, blue+"✓ %s"+reset+dim+" — %d mahadasha(s), "+reset+"%s\n", system, mahadashas, verdict)
}

func (p *Printer) ChartDone(person string, systems int) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, green+"◆ chart complete"+reset+" %s "+dim+"(%d system(s))"+reset+"\n", person, systems)
}

func (p *Printer) ChartFailed(person string, err error) {
	fmt.Fprintf(os.Stderr, red+bold+"✗ %s"+reset+" — %v\n", person, err)
}

// ParseWarnings prints one line per structural warning a parse produced.
func (p *Printer) ParseWarnings(warnings []dasha.Warning) {
	if p.Quiet || len(warnings) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, yellow+bold+"⚠ %d warning(s):"+reset+"\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  "+yellow+"• "+reset+"line %d [%s]: %s\n", w.Line, w.Kind, w.Text)
	}
}

// RunSummary prints the closing box after a full pipeline run.
func (p *Printer) RunSummary(charts, failed, warnings int) {
	if p.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr, "\n"+dim+"┌─ "+reset+bold+"run summary"+reset+dim+" ─────────────────────────"+reset)
	fmt.Fprintf(os.Stderr, dim+"│"+reset+"  charts:   %d processed, %d failed\n", charts, failed)
	fmt.Fprintf(os.Stderr, dim+"│"+reset+"  warnings: %d\n", warnings)
	fmt.Fprintln(os.Stderr, dim+"└──────────────────────────────────────────"+reset)
}

func (p *Printer) WatchStart(dir string) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, magenta+bold+"◉ watching"+reset+" %s "+dim+"(ctrl-c to stop)"+reset+"\n", dir)
}

// ProgressLine formats an in-place progress line string (without ANSI escape
// prefix). Exported for testing.
func ProgressLine(done, total, warnings int) string {
	return fmt.Sprintf("[run] %d/%d charts complete | %d warning(s)", done, total, warnings)
}

// Progress writes a carriage-return-overwritten progress line to stderr.
func (p *Printer) Progress(done, total, warnings int) {
	if p.Quiet {
		return
	}
	// \r returns to start of line; padding clears leftover characters.
	fmt.Fprintf(os.Stderr, "\r"+cyan+"%s"+reset+"   ", ProgressLine(done, total, warnings))
}

// ProgressDone ends the progress line so later output starts on a fresh line.
func (p *Printer) ProgressDone() {
	if p.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr)
}
