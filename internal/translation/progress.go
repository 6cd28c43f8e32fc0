package translation

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"codeberg.org/snonux/slidetrans/internal"
)

const barWidth = 50

// ProgressState is display-only bookkeeping for a batch
type ProgressState struct {
	Total   int
	Current int
	Start   time.Time
}

// ETA estimates the remaining time from the elapsed time and the share of
// items done. ok is false before the first item.
func (s ProgressState) ETA(now time.Time) (time.Duration, bool) {
	if s.Current <= 0 || s.Total <= 0 {
		return 0, false
	}
	elapsed := now.Sub(s.Start)
	estimated := time.Duration(float64(elapsed) * float64(s.Total) / float64(s.Current))
	return estimated - elapsed, true
}

// Percent returns the completed share in percent
func (s ProgressState) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Current) / float64(s.Total) * 100
}

// ProgressBar redraws a single status line while a batch runs. When out is
// not a terminal only the final line is written.
type ProgressBar struct {
	out         io.Writer
	description string
	state       ProgressState
	redraw      bool
	now         func() time.Time
}

// NewProgressBar starts a bar for total items
func NewProgressBar(out io.Writer, total int, description string) *ProgressBar {
	return &ProgressBar{
		out:         out,
		description: description,
		state:       ProgressState{Total: total, Start: time.Now()},
		redraw:      isTerminal(out),
		now:         time.Now,
	}
}

// State returns the current progress state
func (p *ProgressBar) State() ProgressState {
	return p.state
}

// Update moves the bar to current and previews the text being translated
func (p *ProgressBar) Update(current int, text string) {
	if current > p.state.Current {
		p.state.Current = current
	}
	if p.redraw {
		fmt.Fprint(p.out, p.line(text))
	}
}

// Finish writes the completion line. A batch that stopped before the last
// item is reported as interrupted at the count it reached.
func (p *ProgressBar) Finish() {
	elapsed := p.now().Sub(p.state.Start)
	if p.state.Current < p.state.Total {
		percent := p.state.Percent()
		fmt.Fprintf(p.out, "\r%s: %s %.1f%% (%d/%d) Interrupted after %.1fs\n",
			p.description, bar(percent), percent, p.state.Current, p.state.Total, elapsed.Seconds())
		return
	}
	fmt.Fprintf(p.out, "\r%s: %s 100.0%% (%d/%d) Completed in %.1fs\n",
		p.description, strings.Repeat("█", barWidth), p.state.Total, p.state.Total, elapsed.Seconds())
}

func (p *ProgressBar) line(text string) string {
	eta := "ETA: --"
	if remaining, ok := p.state.ETA(p.now()); ok {
		eta = fmt.Sprintf("ETA: %.0fs", remaining.Seconds())
	}

	percent := p.state.Percent()
	line := fmt.Sprintf("\r%s: %s %.1f%% (%d/%d) %s",
		p.description, bar(percent), percent, p.state.Current, p.state.Total, eta)
	if text != "" {
		line += " | " + internal.Truncate(text, 30)
	}
	return line
}

func bar(percent float64) string {
	filled := int(barWidth * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
