package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTransient = errors.New("transient error")
	errFatal     = errors.New("fatal error")
)

// recorder captures observer events and waits instead of sleeping.
type recorder struct {
	mu     sync.Mutex
	events []Event
	waits  []time.Duration
}

func (r *recorder) AttemptFailed(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return ctx.Err()
}

// newTestExecutor builds an executor that records waits instead of sleeping.
func newTestExecutor(t *testing.T, opts ...PolicyOption) (*Executor, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]PolicyOption{WithObserver(rec)}, opts...)
	exec, err := NewExecutor(NewPolicy(opts...))
	require.NoError(t, err)
	exec.wait = rec.wait
	return exec, rec
}

// failingOp fails with errs[i] on the i-th invocation and succeeds afterwards.
type failingOp struct {
	calls int
	errs  []error
}

func (f *failingOp) run(ctx context.Context) (string, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return "", f.errs[f.calls-1]
	}
	return fmt.Sprintf("ok after %d", f.calls), nil
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	exec, rec := newTestExecutor(t)
	op := &failingOp{}

	result, err := Do(context.Background(), exec, op.run)

	require.NoError(t, err)
	assert.Equal(t, "ok after 1", result)
	assert.Equal(t, 1, op.calls)
	assert.Empty(t, rec.events, "observer must not be called on success")
	assert.Empty(t, rec.waits)
}

func TestDo_ReturnsResultUnmodified(t *testing.T) {
	exec, _ := newTestExecutor(t)
	want := []float32{0.1, 0.2, 0.3}

	got, err := Do(context.Background(), exec, func(ctx context.Context) ([]float32, error) {
		return want, nil
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Same(t, &want[0], &got[0])
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		t.Run(fmt.Sprintf("max attempts %d", n), func(t *testing.T) {
			exec, rec := newTestExecutor(t, WithMaxAttempts(Bounded(n)))

			calls := 0
			var last error
			_, err := Do(context.Background(), exec, func(ctx context.Context) (int, error) {
				calls++
				last = fmt.Errorf("attempt %d: %w", calls, errTransient)
				return 0, last
			})

			assert.Equal(t, n, calls)
			assert.Same(t, last, err, "must propagate the last failure itself")
			require.Len(t, rec.events, n)
			assert.Len(t, rec.waits, n-1)

			for i, ev := range rec.events[:n-1] {
				assert.Equal(t, i+1, ev.Attempt)
				assert.False(t, ev.Final)
			}
			final := rec.events[n-1]
			assert.True(t, final.Final)
			assert.Equal(t, n, final.Attempt)
			assert.Same(t, last, final.Err)
			assert.Equal(t, time.Duration(0), final.Delay)
		})
	}
}

func TestDo_SingleAttemptNeverWaits(t *testing.T) {
	exec, rec := newTestExecutor(t, WithMaxAttempts(Bounded(1)), WithJitter(time.Second))
	op := &failingOp{errs: []error{errTransient}}

	_, err := Do(context.Background(), exec, op.run)

	assert.Equal(t, errTransient, err)
	assert.Equal(t, 1, op.calls)
	assert.Empty(t, rec.waits)
	require.Len(t, rec.events, 1)
	assert.True(t, rec.events[0].Final)
}

func TestDo_DelaySequence(t *testing.T) {
	exec, rec := newTestExecutor(t,
		WithMaxAttempts(Bounded(5)),
		WithInitialBackoff(10*time.Millisecond),
		WithMultiplier(3),
	)
	op := &failingOp{errs: []error{errTransient, errTransient, errTransient, errTransient, errTransient}}

	_, err := Do(context.Background(), exec, op.run)

	assert.Equal(t, errTransient, err)
	want := []time.Duration{
		10 * time.Millisecond,
		30 * time.Millisecond,
		90 * time.Millisecond,
		270 * time.Millisecond,
	}
	assert.Equal(t, want, rec.waits)
	for i, ev := range rec.events[:4] {
		assert.Equal(t, want[i], ev.Delay)
		assert.Equal(t, time.Duration(0), ev.Jitter)
	}
}

func TestDo_ZeroJitterIsDeterministic(t *testing.T) {
	run := func() []time.Duration {
		exec, rec := newTestExecutor(t,
			WithMaxAttempts(Bounded(4)),
			WithInitialBackoff(5*time.Millisecond),
			WithMultiplier(1.5),
		)
		exec.jitter = func(time.Duration) time.Duration {
			t.Fatal("jitter must not be drawn when the bound is zero")
			return 0
		}
		_, _ = Do(context.Background(), exec, (&failingOp{errs: []error{errTransient, errTransient, errTransient, errTransient}}).run)
		return rec.waits
	}

	assert.Equal(t, run(), run())
}

func TestDo_JitterDoesNotAffectBaseSequence(t *testing.T) {
	exec, rec := newTestExecutor(t,
		WithMaxAttempts(Bounded(4)),
		WithInitialBackoff(100*time.Millisecond),
		WithMultiplier(2),
		WithJitter(50*time.Millisecond),
	)
	draws := []time.Duration{50 * time.Millisecond, 0, 17 * time.Millisecond}
	i := 0
	exec.jitter = func(max time.Duration) time.Duration {
		assert.Equal(t, 50*time.Millisecond, max)
		d := draws[i]
		i++
		return d
	}

	op := &failingOp{errs: []error{errTransient, errTransient, errTransient}}
	result, err := Do(context.Background(), exec, op.run)

	require.NoError(t, err)
	assert.Equal(t, "ok after 4", result)
	assert.Equal(t, []time.Duration{
		150 * time.Millisecond,
		200 * time.Millisecond,
		417 * time.Millisecond,
	}, rec.waits)

	require.Len(t, rec.events, 3)
	for k, ev := range rec.events {
		assert.Equal(t, 100*time.Millisecond<<k, ev.Delay)
		assert.Equal(t, draws[k], ev.Jitter)
		assert.Equal(t, rec.waits[k], ev.Wait())
	}
}

func TestUniformJitter_WithinBounds(t *testing.T) {
	bound := 3 * time.Nanosecond
	seen := map[time.Duration]bool{}
	for i := 0; i < 1000; i++ {
		d := uniformJitter(bound)
		require.GreaterOrEqual(t, d, time.Duration(0))
		require.LessOrEqual(t, d, bound)
		seen[d] = true
	}
	assert.Len(t, seen, 4, "every value in [0, bound] should eventually be drawn")
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	t.Run("on first attempt", func(t *testing.T) {
		exec, rec := newTestExecutor(t,
			WithMaxAttempts(Unbounded),
			WithRetryable(RetryOn(errTransient)),
		)
		op := &failingOp{errs: []error{errFatal}}

		_, err := Do(context.Background(), exec, op.run)

		assert.Equal(t, errFatal, err)
		assert.Equal(t, 1, op.calls)
		assert.Empty(t, rec.events)
		assert.Empty(t, rec.waits)
	})

	t.Run("after retryable failures", func(t *testing.T) {
		exec, rec := newTestExecutor(t,
			WithMaxAttempts(Bounded(10)),
			WithRetryable(Not(RetryOn(errFatal))),
		)
		op := &failingOp{errs: []error{errTransient, errTransient, errFatal}}

		_, err := Do(context.Background(), exec, op.run)

		assert.Equal(t, errFatal, err)
		assert.Equal(t, 3, op.calls)
		assert.Len(t, rec.events, 2)
		assert.Len(t, rec.waits, 2)
	})
}

func TestDo_FailsTwiceThenSucceeds(t *testing.T) {
	exec, rec := newTestExecutor(t,
		WithMaxAttempts(Bounded(3)),
		WithInitialBackoff(time.Second),
		WithMultiplier(2),
	)
	op := &failingOp{errs: []error{errTransient, errTransient}}

	result, err := Do(context.Background(), exec, op.run)

	require.NoError(t, err)
	assert.Equal(t, "ok after 3", result)
	assert.Equal(t, 3, op.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.waits)
	require.Len(t, rec.events, 2)
	assert.False(t, rec.events[0].Final)
	assert.False(t, rec.events[1].Final)
}

func TestDo_UnboundedRunsUntilCancelled(t *testing.T) {
	var events []Event
	exec, err := NewExecutor(NewPolicy(
		WithMaxAttempts(Unbounded),
		WithInitialBackoff(time.Millisecond),
		WithMultiplier(1),
		WithObserver(ObserverFunc(func(e Event) { events = append(events, e) })),
	))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	err = exec.Run(ctx, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, calls, 1)
	for _, ev := range events {
		assert.False(t, ev.Final, "unbounded policy never reports a final attempt")
	}
}

func TestDo_CancelledDuringWait(t *testing.T) {
	exec, err := NewExecutor(NewPolicy(
		WithMaxAttempts(Bounded(5)),
		WithInitialBackoff(time.Minute),
	))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	calls := 0
	start := time.Now()
	err = exec.Run(ctx, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRun_RealDelays(t *testing.T) {
	exec, err := NewExecutor(NewPolicy(
		WithMaxAttempts(Bounded(3)),
		WithInitialBackoff(10*time.Millisecond),
		WithMultiplier(2),
	))
	require.NoError(t, err)

	calls := 0
	start := time.Now()
	err = exec.Run(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestExecutor_ConcurrentCallsAreIndependent(t *testing.T) {
	exec, err := NewExecutor(NewPolicy(
		WithMaxAttempts(Bounded(4)),
		WithInitialBackoff(time.Millisecond),
	))
	require.NoError(t, err)

	const workers = 16
	var total atomic.Int32
	var wg sync.WaitGroup
	results := make([]int, workers)
	errs := make([]error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			calls := 0
			results[w], errs[w] = Do(context.Background(), exec, func(ctx context.Context) (int, error) {
				calls++
				total.Add(1)
				if calls < 1+w%4 {
					return 0, errTransient
				}
				return calls, nil
			})
		}(w)
	}
	wg.Wait()

	var want int32
	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		assert.Equal(t, 1+w%4, results[w])
		want += int32(1 + w%4)
	}
	assert.Equal(t, want, total.Load())
}

func TestNextDelay_Saturates(t *testing.T) {
	d := time.Duration(1 << 62)
	d = nextDelay(d, 4)
	assert.Equal(t, time.Duration(1<<63-1), d)
	assert.Equal(t, d, nextDelay(d, 2))

	assert.Equal(t, time.Duration(1<<63-1), saturatingAdd(d, time.Second))
	assert.Equal(t, 3*time.Second, saturatingAdd(time.Second, 2*time.Second))
}
