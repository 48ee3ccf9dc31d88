package progress

import (
	"fmt"
	"io"
	"time"
)

// Writer arbitrates foreign output against the animated line. Any write that
// arrives while a frame is on screen first retires that frame: frames for
// steps that have run at least the seal threshold are kept as a permanent
// summary line, shorter ones are cleared. The payload is then written intact.
//
// Install it as the log package's output so every log line lands on a clean
// line regardless of what the painter was doing.
type Writer struct {
	rep *Reporter
	dst io.Writer
}

// NewWriter wraps dst with the arbitration protocol for rep.
func NewWriter(rep *Reporter, dst io.Writer) *Writer {
	return &Writer{rep: rep, dst: dst}
}

func (w *Writer) Write(p []byte) (int, error) {
	r := w.rep
	if r == nil || !r.active() {
		return w.dst.Write(p)
	}
	r.termMu.Lock()
	defer r.termMu.Unlock()
	if r.inPrompt {
		// Prompt mode owns the screen; pass through untouched.
		return w.dst.Write(p)
	}
	if r.sealPending {
		elapsed := time.Since(r.curTaskStart)
		if elapsed >= r.sealThreshold {
			fmt.Fprintf(w.dst, "\r%s overall %s | finished: %s %s\n",
				filledFrame, fmtElapsed(time.Since(r.overallStart)), r.curTask, fmtElapsed(elapsed))
		} else {
			r.clearLineLocked()
		}
		r.sealPending = false
	}
	return w.dst.Write(p)
}
