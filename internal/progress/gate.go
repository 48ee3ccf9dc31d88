package progress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the operator declines a destructive action
// or interrupts the countdown.
var ErrCancelled = errors.New("cancelled by operator")

var (
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// Gate guards irreversible deletions. The flow is a hard Y/N confirmation
// followed by a countdown that the operator can skip with Enter or cancel
// with an interrupt; only a full pass through both stages lets the caller
// proceed.
type Gate struct {
	In       io.Reader
	Out      io.Writer
	Reporter *Reporter
	Tick     time.Duration
	BarWidth int

	feedOnce sync.Once
	lines    chan string
}

// NewGate builds a Gate on the process terminal. rep may be nil when no
// animated display is running.
func NewGate(rep *Reporter) *Gate {
	return &Gate{In: os.Stdin, Out: os.Stdout, Reporter: rep}
}

// lineFeed returns the channel of operator input lines. A single goroutine
// owns the reader for the life of the gate, so an expired countdown never
// leaves a read pending that would swallow the answer to a later prompt.
// The channel closes on EOF.
func (g *Gate) lineFeed() <-chan string {
	g.feedOnce.Do(func() {
		g.lines = make(chan string)
		br := bufio.NewReader(g.In)
		go func() {
			defer close(g.lines)
			for {
				line, err := br.ReadString('\n')
				if line != "" {
					g.lines <- line
				}
				if err != nil {
					return
				}
			}
		}()
	})
	return g.lines
}

func (g *Gate) tick() time.Duration {
	if g.Tick > 0 {
		return g.Tick
	}
	return time.Second
}

func (g *Gate) barWidth() int {
	if g.BarWidth > 0 {
		return g.BarWidth
	}
	return 40
}

// Confirm runs the full gate for deleting target. reason tells the operator
// why the prompt appeared (e.g. which command asked for it). countdown is
// the grace period after an affirmative answer; zero skips straight through.
//
// Any answer other than Y/yes declines. Declining or interrupting returns
// ErrCancelled and the caller must not delete anything.
func (g *Gate) Confirm(ctx context.Context, target, reason string, countdown time.Duration) error {
	if g.Reporter != nil {
		g.Reporter.SetPrompt(true, fmt.Sprintf("confirmation required: %s", target))
		defer g.Reporter.SetPrompt(false, "")
	}

	rule := strings.Repeat("!", 62)
	fmt.Fprintln(g.Out, warnStyle.Render(rule))
	fmt.Fprintln(g.Out, warnStyle.Render(fmt.Sprintf("  WARNING: this will permanently DELETE %s", target)))
	if reason != "" {
		fmt.Fprintln(g.Out, bannerStyle.Render("  "+reason))
	}
	fmt.Fprintln(g.Out, warnStyle.Render(rule))
	fmt.Fprint(g.Out, "ARE YOU SURE? Type Y to continue, anything else aborts: ")

	var line string
	select {
	case <-ctx.Done():
		fmt.Fprintln(g.Out)
		return ErrCancelled
	case l, ok := <-g.lineFeed():
		if !ok {
			// EOF or a broken stdin is never an approval.
			return ErrCancelled
		}
		line = l
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
	default:
		fmt.Fprintln(g.Out, "[abort] nothing was deleted")
		return ErrCancelled
	}

	return g.countdown(ctx, countdown)
}

// countdown draws a filling bar for the grace period. Enter skips it, an
// interrupt (cancelled ctx) aborts with ErrCancelled, and expiry proceeds.
func (g *Gate) countdown(ctx context.Context, total time.Duration) error {
	if total <= 0 {
		return nil
	}
	tick := g.tick()
	ticks := int(total / tick)
	if ticks < 1 {
		ticks = 1
	}

	fmt.Fprintln(g.Out, "deletion starts when the bar fills; press Enter to skip, Ctrl+C to abort")

	lines := g.lineFeed()
	width := g.barWidth()
	for remaining := ticks; ; remaining-- {
		filled := width * (ticks - remaining) / ticks
		bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
		fmt.Fprintf(g.Out, "\rT-%3ds [%s]", int(time.Duration(remaining)*tick/time.Second), bar)
		if remaining <= 0 {
			fmt.Fprintln(g.Out)
			return nil
		}
		waiting := true
		for waiting {
			select {
			case <-ctx.Done():
				fmt.Fprintln(g.Out)
				fmt.Fprintln(g.Out, "[abort] interrupted; nothing was deleted")
				return ErrCancelled
			case _, ok := <-lines:
				if !ok {
					// Stdin closed; run the clock out.
					lines = nil
					continue
				}
				fmt.Fprintln(g.Out)
				fmt.Fprintln(g.Out, "[skip] countdown skipped")
				return nil
			case <-time.After(tick):
				waiting = false
			}
		}
	}
}
