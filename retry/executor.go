// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Executor runs operations under a validated Policy.
//
// An Executor holds no per-call state and is safe for concurrent use. Each
// call to Do or Run starts from attempt 1 and the policy's initial backoff.
type Executor struct {
	policy Policy

	// wait blocks for d or until ctx is done. Replaced in tests.
	wait func(ctx context.Context, d time.Duration) error

	// jitter returns a uniform draw in [0, max]. Replaced in tests.
	jitter func(max time.Duration) time.Duration
}

// NewExecutor validates p and returns an Executor using a copy of it.
// Later changes to p do not affect the returned Executor.
func NewExecutor(p *Policy) (*Executor, error) {
	if p == nil {
		return nil, ErrNilPolicy
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	policy := *p
	if policy.Retryable == nil {
		policy.Retryable = RetryAll
	}

	return &Executor{
		policy: policy,
		wait:   sleepContext,
		jitter: uniformJitter,
	}, nil
}

// Policy returns a copy of the executor's policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Run invokes op until it succeeds, fails with a non-retryable error, or the
// attempt limit is reached. The error from the last invocation is returned
// as is.
func (e *Executor) Run(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Do(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do is Run for operations that produce a value. On success the value is
// returned unmodified.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	p := &e.policy
	delay := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if !p.Retryable(err) {
			return result, err
		}

		if p.MaxAttempts.Exhausted(attempt) {
			e.notify(Event{Attempt: attempt, Err: err, Final: true})
			return result, err
		}

		var jitter time.Duration
		if p.Jitter > 0 {
			jitter = e.jitter(p.Jitter)
		}
		e.notify(Event{Attempt: attempt, Err: err, Delay: delay, Jitter: jitter})

		if werr := e.wait(ctx, saturatingAdd(delay, jitter)); werr != nil {
			var zero T
			return zero, werr
		}

		delay = nextDelay(delay, p.Multiplier)
	}
}

func (e *Executor) notify(ev Event) {
	if e.policy.Observer != nil {
		e.policy.Observer.AttemptFailed(ev)
	}
}

// nextDelay multiplies d by m, saturating at the largest Duration.
func nextDelay(d time.Duration, m float64) time.Duration {
	next := float64(d) * m
	if next >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(next)
}

func saturatingAdd(a, b time.Duration) time.Duration {
	if a > math.MaxInt64-b {
		return time.Duration(math.MaxInt64)
	}
	return a + b
}

func uniformJitter(max time.Duration) time.Duration {
	if max == math.MaxInt64 {
		return time.Duration(rand.Int64())
	}
	return time.Duration(rand.Int64N(int64(max) + 1))
}

// sleepContext waits for d, returning ctx.Err() if ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
