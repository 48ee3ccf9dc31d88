// Package progress renders a continuously animated one-line status display
// concurrently with long blocking provider calls, and guards irreversible
// deletions behind an explicit confirmation plus a skippable countdown.
//
// A [Reporter] owns the terminal line: a background goroutine repaints a
// spinner frame with overall and per-task timers, switching to a static
// prompt banner while user input is being read. The [Writer] arbitrates
// foreign output (the log package, plain prints) so that interleaved writes
// seal or clear the animated line instead of corrupting it. The [Gate]
// implements the confirm-then-countdown flow for destructive operations.
package progress
