package progress

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Decline(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("n\n"), Out: &out, Tick: time.Millisecond}

	err := g.Confirm(context.Background(), "vpc vpc-123", "down --tier network", time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out.String(), "WARNING")
	assert.Contains(t, out.String(), "[abort] nothing was deleted")
	assert.NotContains(t, out.String(), "countdown")
}

func TestGate_EmptyAnswerDeclines(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("\n"), Out: &out, Tick: time.Millisecond}

	err := g.Confirm(context.Background(), "nat gateway", "", time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestGate_EOFDeclines(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader(""), Out: &out}

	err := g.Confirm(context.Background(), "nat gateway", "", time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestGate_AcceptThenExpire(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("y\n"), Out: &out, Tick: 2 * time.Millisecond, BarWidth: 10}

	err := g.Confirm(context.Background(), "nat gateway", "", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "press Enter to skip")
	assert.NotContains(t, out.String(), "[skip]")
}

func TestGate_AcceptThenSkip(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	pr, pw := io.Pipe()
	g := &Gate{In: pr, Out: &out, Tick: 5 * time.Millisecond, BarWidth: 10}

	go func() {
		_, _ = pw.Write([]byte("yes\n"))
		time.Sleep(12 * time.Millisecond) // let a couple of ticks elapse
		_, _ = pw.Write([]byte("\n"))
	}()

	start := time.Now()
	err := g.Confirm(context.Background(), "nat gateway", "", time.Minute)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second, "skip must not wait out the countdown")
	assert.Contains(t, out.String(), "[skip] countdown skipped")
}

func TestGate_SecondConfirmAfterExpiredCountdown(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	pr, pw := io.Pipe()
	g := &Gate{In: pr, Out: &out, Tick: 2 * time.Millisecond, BarWidth: 10}

	go func() {
		_, _ = pw.Write([]byte("y\n"))
		// Answer the second prompt only after the first countdown ran out.
		time.Sleep(30 * time.Millisecond)
		_, _ = pw.Write([]byte("y\n"))
	}()

	require.NoError(t, g.Confirm(context.Background(), "nat gateway", "", 10*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- g.Confirm(context.Background(), "vpc vpc-123", "", 0) }()
	select {
	case err := <-done:
		require.NoError(t, err, "the second prompt must see the operator's answer")
	case <-time.After(5 * time.Second):
		t.Fatal("second confirmation never saw its answer")
	}
}

func TestGate_CountdownBarFills(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("y\n"), Out: &out, Tick: 2 * time.Millisecond, BarWidth: 4}

	require.NoError(t, g.Confirm(context.Background(), "nat gateway", "", 8*time.Millisecond))
	s := out.String()
	assert.Contains(t, s, "bar fills")
	assert.Contains(t, s, "[----]", "the bar starts empty")
	assert.Contains(t, s, "[####]", "the bar is full at expiry")
}

func TestGate_AcceptThenInterrupt(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("y\n"), Out: &out, Tick: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	err := g.Confirm(ctx, "nat gateway", "", time.Minute)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out.String(), "[abort] interrupted; nothing was deleted")
}

func TestGate_ZeroCountdownProceeds(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("Y\n"), Out: &out}

	require.NoError(t, g.Confirm(context.Background(), "key pair", "", 0))
	assert.NotContains(t, out.String(), "press Enter to skip")
}

func TestGate_PromptModeOnReporter(t *testing.T) {
	var term bytes.Buffer
	r := newTestReporter(&term)
	r.Start()

	var out bytes.Buffer
	g := &Gate{In: strings.NewReader("n\n"), Out: &out, Reporter: r}
	err := g.Confirm(context.Background(), "vpc", "", time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
	time.Sleep(20 * time.Millisecond)
	r.Stop()
	assert.Contains(t, term.String(), promptFrame)
}
