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
	"fmt"
	"math"
	"time"
)

// Policy configures an Executor.
type Policy struct {
	// MaxAttempts caps the number of invocations, first try included.
	// Default: Bounded(3)
	MaxAttempts Attempts

	// InitialBackoff is the delay before the second attempt.
	// Default: 1s
	InitialBackoff time.Duration

	// Multiplier grows the delay after every failed attempt.
	// Default: 2.0
	Multiplier float64

	// Jitter bounds the random amount in [0, Jitter] added to each delay.
	// The base delay sequence is not affected by it.
	// Default: 0
	Jitter time.Duration

	// Retryable decides whether a failure should be retried.
	// A nil Retryable retries every error.
	Retryable Predicate

	// Observer is notified about every retryable failure. Optional.
	Observer Observer
}

// PolicyOption is a functional option for configuring a Policy.
type PolicyOption func(*Policy)

// WithMaxAttempts sets the attempt cap.
func WithMaxAttempts(a Attempts) PolicyOption {
	return func(p *Policy) {
		p.MaxAttempts = a
	}
}

// WithInitialBackoff sets the delay before the second attempt.
func WithInitialBackoff(d time.Duration) PolicyOption {
	return func(p *Policy) {
		p.InitialBackoff = d
	}
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) PolicyOption {
	return func(p *Policy) {
		p.Multiplier = m
	}
}

// WithJitter sets the upper bound of the random delay added to each wait.
func WithJitter(d time.Duration) PolicyOption {
	return func(p *Policy) {
		p.Jitter = d
	}
}

// WithRetryable sets the predicate that classifies retryable failures.
func WithRetryable(pred Predicate) PolicyOption {
	return func(p *Policy) {
		p.Retryable = pred
	}
}

// WithObserver sets the sink notified about failed attempts.
func WithObserver(o Observer) PolicyOption {
	return func(p *Policy) {
		p.Observer = o
	}
}

// DefaultPolicy returns three attempts, one second initial backoff doubling
// each time, no jitter, retrying every error.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:    Bounded(3),
		InitialBackoff: time.Second,
		Multiplier:     2.0,
		Retryable:      RetryAll,
	}
}

// NewPolicy creates a Policy with the default values and applies the provided options.
func NewPolicy(opts ...PolicyOption) *Policy {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate checks every policy invariant.
func (p *Policy) Validate() error {
	if err := p.MaxAttempts.validate(); err != nil {
		return fmt.Errorf("%w: got %s", err, p.MaxAttempts)
	}
	if p.InitialBackoff < 0 {
		return fmt.Errorf("%w: got %s", ErrNegativeBackoff, p.InitialBackoff)
	}
	if math.IsNaN(p.Multiplier) || math.IsInf(p.Multiplier, 0) || p.Multiplier < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidMultiplier, p.Multiplier)
	}
	if p.Jitter < 0 {
		return fmt.Errorf("%w: got %s", ErrNegativeJitter, p.Jitter)
	}
	return nil
}
