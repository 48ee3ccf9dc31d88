package progress

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(out *bytes.Buffer, opts ...Option) *Reporter {
	base := []Option{WithInterval(5 * time.Millisecond), WithSealThreshold(time.Hour)}
	return New(out, append(base, opts...)...)
}

func TestReporter_AnimatesCurrentTask(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	r.SetTask("creating vpc")
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	s := out.String()
	assert.Contains(t, s, "current: creating vpc")
	assert.Contains(t, s, "overall")
	assert.Contains(t, s, "[>      ]")
}

func TestReporter_StopClearsLine(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	time.Sleep(30 * time.Millisecond)
	r.Stop()

	// The last thing on the wire is the clear sequence, not a frame.
	s := out.String()
	assert.True(t, bytes.HasSuffix([]byte(s), []byte("\r")), "expected trailing clear, got %q", s[max(0, len(s)-20):])
}

func TestReporter_StepSealsLongTask(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out, WithSealThreshold(0))
	r.Start()
	err := r.Step("waiting for nat gateway", func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})
	r.Stop()

	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, filledFrame)
	assert.Contains(t, s, "finished: waiting for nat gateway")
}

func TestReporter_StepWrapsError(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	boom := errors.New("boom")
	err := r.Step("deleting subnet", func() error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "deleting subnet")
}

func TestReporter_DisabledStepStillLogs(t *testing.T) {
	var out, logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	r := New(&out, WithAnimation(false))
	r.Start()
	defer r.Stop()

	require.NoError(t, r.Step("creating igw", func() error { return nil }))
	assert.Empty(t, out.String(), "disabled reporter must not touch the terminal")
	assert.Contains(t, logs.String(), "[done] creating igw")
}

func TestSpinUntil_Succeeds(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	calls := 0
	ok, err := r.SpinUntil(context.Background(), "nat becoming available",
		func(context.Context) (bool, error) {
			calls++
			return calls >= 3, nil
		}, time.Second, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestSpinUntil_TimeoutIsNotAnError(t *testing.T) {
	var out, logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	ok, err := r.SpinUntil(context.Background(), "nat deleting",
		func(context.Context) (bool, error) { return false, nil },
		10*time.Millisecond, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "[warn] gave up waiting: nat deleting")
}

func TestSpinUntil_WarnReportsElapsedNotBudget(t *testing.T) {
	var out, logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	// One slow predicate call blows well past the 10ms budget; the warn
	// line must show the time actually spent, not the configured budget.
	ok, err := r.SpinUntil(context.Background(), "nat deleting",
		func(context.Context) (bool, error) {
			time.Sleep(1100 * time.Millisecond)
			return false, nil
		}, 10*time.Millisecond, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "[warn] gave up waiting: nat deleting")
	assert.NotContains(t, logs.String(), "after 00:00")
}

func TestSpinUntil_PredicateError(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	boom := errors.New("api down")
	_, err := r.SpinUntil(context.Background(), "checking", func(context.Context) (bool, error) {
		return false, boom
	}, time.Second, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSpinUntil_ContextCancel(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	defer r.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.SpinUntil(ctx, "waiting", func(context.Context) (bool, error) {
		return false, nil
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFmtElapsed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00:00", fmtElapsed(0))
	assert.Equal(t, "00:59", fmtElapsed(59*time.Second))
	assert.Equal(t, "02:05", fmtElapsed(125*time.Second))
	assert.Equal(t, "00:00", fmtElapsed(-time.Second))
}

func TestWriter_ClearsFrameBeforeForeignWrite(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	r.SetTask("creating vpc")
	time.Sleep(40 * time.Millisecond)

	w := NewWriter(r, &out)
	_, err := w.Write([]byte("[ok] vpc vpc-123 exists\n"))
	require.NoError(t, err)
	r.Stop()

	s := out.String()
	idx := bytes.LastIndex([]byte(s), []byte("[ok] vpc vpc-123 exists"))
	require.GreaterOrEqual(t, idx, 0)
	// The clear sequence immediately precedes the payload.
	assert.Contains(t, s[:idx], "\r ")
}

func TestWriter_SealsLongFrameBeforeForeignWrite(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out, WithSealThreshold(0))
	r.Start()
	r.SetTask("waiting for instances")
	time.Sleep(40 * time.Millisecond)

	w := NewWriter(r, &out)
	_, err := w.Write([]byte("[done] nodes ready\n"))
	require.NoError(t, err)
	r.Stop()

	s := out.String()
	sealed := bytes.Index([]byte(s), []byte("finished: waiting for instances"))
	payload := bytes.Index([]byte(s), []byte("[done] nodes ready"))
	require.GreaterOrEqual(t, sealed, 0, "expected a sealed summary line")
	require.GreaterOrEqual(t, payload, 0)
	assert.Less(t, sealed, payload)
}

func TestWriter_PassthroughWhenInactive(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, WithAnimation(false))
	r.Start()

	w := NewWriter(r, &out)
	_, err := w.Write([]byte("plain line\n"))
	require.NoError(t, err)
	assert.Equal(t, "plain line\n", out.String())
}

func TestWriter_PassthroughInPromptMode(t *testing.T) {
	var out bytes.Buffer
	r := newTestReporter(&out)
	r.Start()
	time.Sleep(20 * time.Millisecond)
	r.SetPrompt(true, "confirmation required")
	time.Sleep(20 * time.Millisecond)

	w := NewWriter(r, &out)
	before := out.Len()
	_, err := w.Write([]byte("ARE YOU SURE?"))
	require.NoError(t, err)
	r.Stop()

	// No clear sequence injected between the snapshot point and the prompt.
	assert.Contains(t, out.String()[before:], "ARE YOU SURE?")
}
