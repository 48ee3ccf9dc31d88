// Package tui provides a Bubble Tea-based live dashboard for stack status.
package tui

import "vpctier/internal/tiers"

// StatusMsg carries the latest stack snapshot, or the error that prevented
// fetching one.
type StatusMsg struct {
	Status *tiers.StackStatus
	Err    error
}

// TickMsg is sent periodically to refresh the display and trigger a poll.
type TickMsg struct{}
