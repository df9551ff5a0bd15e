package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/ajxudir/turboncu/pkg/constants"
)

// Reporter shows progress of a long-running step.
type Reporter interface {
	// Start begins a step with the given text.
	Start(text string)

	// Update replaces the text of the running step.
	Update(text string)

	// Succeed ends the running step with a success mark.
	Succeed(text string)

	// Fail ends the running step with a failure mark.
	Fail(text string)
}

// NoopReporter discards all progress. It is used for JSON output and when
// stdout is not a terminal.
type NoopReporter struct{}

func (NoopReporter) Start(string)   {}
func (NoopReporter) Update(string)  {}
func (NoopReporter) Succeed(string) {}
func (NoopReporter) Fail(string)    {}

// Spinner is a single-line terminal Reporter. Each Start or Update redraws
// the line with the next frame. Spinner is safe for concurrent use.
//
// Fields:
//   - writer: Destination for progress output (typically os.Stderr)
//   - mu: Guards all other fields
//   - active: Whether a step is running
//   - frame: Index of the next frame to draw
//   - lastWidth: Width of the last rendered line for proper clearing
type Spinner struct {
	writer    io.Writer
	mu        sync.Mutex
	active    bool
	frame     int
	lastWidth int
}

// NewSpinner creates a Spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{writer: w}
}

// Start begins a step and draws its first frame.
func (s *Spinner) Start(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.frame = 0
	s.draw(Info.Render(s.nextFrame()) + " " + text)
}

// Update redraws the running step with new text. It is ignored when no step
// is running.
func (s *Spinner) Update(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.draw(Info.Render(s.nextFrame()) + " " + text)
}

// Succeed replaces the running step with a check mark line.
func (s *Spinner) Succeed(text string) {
	s.finish(Success.Render(constants.IconSuccess) + " " + text)
}

// Fail replaces the running step with a cross line.
func (s *Spinner) Fail(text string) {
	s.finish(Failure.Render(constants.IconFailure) + " " + text)
}

func (s *Spinner) finish(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	s.draw(line)
	_, _ = fmt.Fprintln(s.writer)
	s.lastWidth = 0
}

func (s *Spinner) nextFrame() string {
	f := constants.SpinnerFrames[s.frame%len(constants.SpinnerFrames)]
	s.frame++
	return f
}

// draw rewrites the current line, padding over any longer previous line.
// Callers hold s.mu.
func (s *Spinner) draw(line string) {
	width := lipgloss.Width(line)
	if width < s.lastWidth {
		line += strings.Repeat(" ", s.lastWidth-width)
	}
	s.lastWidth = max(width, s.lastWidth)
	_, _ = fmt.Fprint(s.writer, "\r"+line)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewReporter returns a Spinner on w when progress should be shown, and a
// NoopReporter otherwise.
//
// Parameters:
//   - w: Progress destination
//   - quiet: Suppress progress regardless of w (JSON output)
//
// Returns:
//   - Reporter: Spinner or NoopReporter
func NewReporter(w io.Writer, quiet bool) Reporter {
	if quiet || !IsTerminal(w) {
		return NoopReporter{}
	}
	return NewSpinner(w)
}
