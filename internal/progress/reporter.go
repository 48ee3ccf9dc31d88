package progress

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	defaultInterval = 100 * time.Millisecond
	lineWidth       = 110
)

// cometFrames sweep a marker across a fixed-width track; the final empty
// frame gives the animation a visible "blink" between sweeps.
var cometFrames = []string{
	"[>      ]",
	"[=>     ]",
	"[ =>    ]",
	"[  =>   ]",
	"[   =>  ]",
	"[    => ]",
	"[     =>]",
	"[      =]",
	"[       ]",
}

const (
	filledFrame = "[^^^^^^^]"
	promptFrame = "[*******]"
)

type taskMsg struct{ desc string }

type promptMsg struct {
	on  bool
	msg string
}

// Reporter repaints a single terminal line from a background goroutine.
// All state the render loop needs lives inside the loop; callers talk to it
// through a mailbox channel, so SetTask and SetPrompt never race the painter.
type Reporter struct {
	out           io.Writer
	interval      time.Duration
	sealThreshold time.Duration
	animate       bool

	cmds    chan any
	stopc   chan struct{}
	done    chan struct{}
	running atomic.Bool

	// termMu serializes every write to out. The fields below it are the
	// published snapshot of the render loop's state; the arbitrator reads
	// them while sealing a frame.
	termMu       sync.Mutex
	sealPending  bool
	inPrompt     bool
	curTask      string
	curTaskStart time.Time
	overallStart time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithInterval sets the repaint interval.
func WithInterval(d time.Duration) Option {
	return func(r *Reporter) { r.interval = d }
}

// WithSealThreshold sets the per-task duration above which a finished step
// leaves a permanent summary line instead of being cleared.
func WithSealThreshold(d time.Duration) Option {
	return func(r *Reporter) { r.sealThreshold = d }
}

// WithAnimation enables or disables the animated display. When disabled the
// Reporter degrades to plain log lines and never touches the cursor.
func WithAnimation(on bool) Option {
	return func(r *Reporter) { r.animate = on }
}

// New creates a Reporter writing to out. Call Start to begin animating.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:           out,
		interval:      defaultInterval,
		sealThreshold: 5 * time.Minute,
		animate:       true,
		cmds:          make(chan any, 16),
		stopc:         make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the render loop. It is a no-op when animation is disabled.
func (r *Reporter) Start() {
	r.overallStart = time.Now()
	if !r.animate {
		close(r.done)
		return
	}
	r.curTaskStart = r.overallStart
	r.running.Store(true)
	go r.loop()
}

// Stop halts the render loop and clears the animated line.
func (r *Reporter) Stop() {
	if !r.running.CompareAndSwap(true, false) {
		return
	}
	close(r.stopc)
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}
}

func (r *Reporter) active() bool { return r.running.Load() }

// SetTask names the current step and resets its timer.
func (r *Reporter) SetTask(desc string) {
	r.send(taskMsg{desc: desc})
}

// SetPrompt switches the display into prompt mode: the animation freezes on
// a static banner so interactive reads do not fight the painter. Passing
// on=false resumes the animation.
func (r *Reporter) SetPrompt(on bool, msg string) {
	r.send(promptMsg{on: on, msg: msg})
	// The arbitrator must see prompt mode before the caller starts writing
	// its own prompt text, so publish it eagerly too.
	r.termMu.Lock()
	r.inPrompt = on
	r.termMu.Unlock()
}

func (r *Reporter) send(m any) {
	if !r.active() {
		return
	}
	select {
	case r.cmds <- m:
	case <-r.stopc:
	}
}

// Step runs fn as a named task: the display shows its description and timer
// while it blocks, and on return the line is sealed (long step) or cleared.
// A successful step is recorded with a [done] log line.
func (r *Reporter) Step(desc string, fn func() error) error {
	r.SetTask(desc)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.finishTask(desc, elapsed)
	if err != nil {
		return fmt.Errorf("%s: %w", desc, err)
	}
	log.Printf("[done] %s in %s", desc, fmtElapsed(elapsed))
	return nil
}

// SpinUntil polls pred every poll interval until it reports true, the budget
// elapses, or ctx is cancelled. A timeout is not an error: the caller gets
// ok=false and a [warn] line, matching the tolerant wait semantics of the
// provider state machines.
func (r *Reporter) SpinUntil(ctx context.Context, desc string, pred func(context.Context) (bool, error), timeout, poll time.Duration) (bool, error) {
	r.SetTask(desc)
	start := time.Now()
	for {
		ok, err := pred(ctx)
		if err != nil {
			r.finishTask(desc, time.Since(start))
			return false, fmt.Errorf("%s: %w", desc, err)
		}
		if ok {
			elapsed := time.Since(start)
			r.finishTask(desc, elapsed)
			log.Printf("[done] %s in %s", desc, fmtElapsed(elapsed))
			return true, nil
		}
		if elapsed := time.Since(start); elapsed >= timeout {
			r.finishTask(desc, elapsed)
			log.Printf("[warn] gave up waiting: %s after %s", desc, fmtElapsed(elapsed))
			return false, nil
		}
		select {
		case <-ctx.Done():
			r.finishTask(desc, time.Since(start))
			return false, ctx.Err()
		case <-time.After(poll):
		}
	}
}

// finishTask disposes of the animated line for a completed step: long steps
// leave a sealed summary, short ones vanish.
func (r *Reporter) finishTask(desc string, elapsed time.Duration) {
	if !r.active() {
		return
	}
	r.termMu.Lock()
	defer r.termMu.Unlock()
	if elapsed >= r.sealThreshold {
		fmt.Fprintf(r.out, "\r%s overall %s | finished: %s %s\n",
			filledFrame, fmtElapsed(time.Since(r.overallStart)), desc, fmtElapsed(elapsed))
	} else if r.sealPending {
		r.clearLineLocked()
	}
	r.sealPending = false
}

func (r *Reporter) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var (
		task       = "starting"
		taskStart  = r.overallStart
		prompt     bool
		promptText string
		frame      int
	)

	for {
		select {
		case <-r.stopc:
			r.termMu.Lock()
			if r.sealPending {
				r.clearLineLocked()
				r.sealPending = false
			}
			r.termMu.Unlock()
			return

		case m := <-r.cmds:
			switch msg := m.(type) {
			case taskMsg:
				task = msg.desc
				taskStart = time.Now()
			case promptMsg:
				prompt = msg.on
				promptText = msg.msg
				if prompt {
					r.termMu.Lock()
					if r.sealPending {
						r.clearLineLocked()
						r.sealPending = false
					}
					r.inPrompt = true
					if promptText != "" {
						fmt.Fprintf(r.out, "%s %s\n", promptFrame, promptText)
					}
					r.termMu.Unlock()
				} else {
					r.termMu.Lock()
					r.inPrompt = false
					r.termMu.Unlock()
					taskStart = time.Now()
				}
			}

		case <-ticker.C:
			if prompt {
				continue
			}
			line := fmt.Sprintf("\r%s overall %s | current: %s %s",
				cometFrames[frame%len(cometFrames)],
				fmtElapsed(time.Since(r.overallStart)),
				task,
				fmtElapsed(time.Since(taskStart)))
			frame++
			r.termMu.Lock()
			fmt.Fprint(r.out, line)
			r.sealPending = true
			r.curTask = task
			r.curTaskStart = taskStart
			r.termMu.Unlock()
		}
	}
}

// clearLineLocked blanks the animated line. Callers hold termMu.
func (r *Reporter) clearLineLocked() {
	fmt.Fprint(r.out, "\r"+strings.Repeat(" ", lineWidth)+"\r")
}

// fmtElapsed renders a duration as MM:SS.
func fmtElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Run wires a Reporter to the process terminal for the duration of fn: the
// animation targets stdout, and the standard logger is rerouted through the
// output arbitrator so log lines and the animated line never interleave.
func Run(fn func(*Reporter) error, opts ...Option) error {
	base := []Option{WithAnimation(isatty.IsTerminal(os.Stdout.Fd()))}
	r := New(os.Stdout, append(base, opts...)...)
	r.Start()
	defer r.Stop()

	prevOut := log.Writer()
	log.SetOutput(NewWriter(r, os.Stdout))
	defer log.SetOutput(prevOut)

	return fn(r)
}
