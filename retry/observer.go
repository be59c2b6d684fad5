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
	"log/slog"
	"time"
)

// Event describes one failed attempt. It is passed to the Observer and not
// kept after the call returns.
type Event struct {
	// Attempt is the 1-based index of the failed invocation.
	Attempt int

	// Err is the error returned by the operation.
	Err error

	// Delay is the base backoff scheduled before the next attempt.
	// Zero when Final is set.
	Delay time.Duration

	// Jitter is the random amount added on top of Delay.
	Jitter time.Duration

	// Final is set when no further attempt will be made.
	Final bool
}

// Wait returns the total time slept before the next attempt.
func (e Event) Wait() time.Duration {
	return e.Delay + e.Jitter
}

// Observer receives attempt outcomes. It is never consulted for control
// decisions and must not block for long, since it runs on the caller's
// goroutine between attempts.
type Observer interface {
	AttemptFailed(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// AttemptFailed calls f(e).
func (f ObserverFunc) AttemptFailed(e Event) {
	f(e)
}

// SlogObserver logs attempt outcomes: retries at Warn and final failures at Error.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer writing to logger, or to slog.Default()
// when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

// AttemptFailed logs e.
func (o *SlogObserver) AttemptFailed(e Event) {
	if e.Final {
		o.logger.LogAttrs(context.Background(), slog.LevelError, "final attempt failed",
			slog.Int("attempt", e.Attempt),
			slog.Any("err", e.Err),
		)
		return
	}
	o.logger.LogAttrs(context.Background(), slog.LevelWarn, "attempt failed, retrying",
		slog.Int("attempt", e.Attempt),
		slog.Any("err", e.Err),
		slog.Duration("delay", e.Delay),
		slog.Duration("jitter", e.Jitter),
	)
}
