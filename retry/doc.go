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

// Package retry runs fallible operations under an exponential backoff policy.
//
// A Policy describes how many times an operation may be invoked, how long to
// wait between invocations, how much random jitter to add to each wait, and
// which errors are worth retrying at all. NewExecutor validates a Policy once
// and returns an immutable Executor that can be shared between goroutines.
//
// # Usage
//
//	policy := retry.NewPolicy(
//	    retry.WithMaxAttempts(retry.Bounded(5)),
//	    retry.WithInitialBackoff(500*time.Millisecond),
//	    retry.WithJitter(250*time.Millisecond),
//	    retry.WithRetryable(retry.Not(retry.RetryOn(ErrBadRequest))),
//	    retry.WithObserver(retry.NewSlogObserver(slog.Default())),
//	)
//	exec, err := retry.NewExecutor(policy)
//	if err != nil {
//	    return err
//	}
//
//	vec, err := retry.Do(ctx, exec, func(ctx context.Context) ([]float32, error) {
//	    return embedder.EmbedText(ctx, text)
//	})
//
// # Outcomes
//
// A call ends in exactly one of three ways:
//
//   - the operation succeeds and its result is returned unchanged
//   - the operation fails with an error the policy does not consider
//     retryable, and that error is returned immediately
//   - the attempt limit is reached, and the error from the last invocation
//     is returned
//
// Errors returned by the operation are never wrapped, so callers can inspect
// them with errors.Is and errors.As exactly as if no retry had happened.
//
// # Cancellation
//
// The context passed to Do or Run is watched while waiting between attempts.
// If it is cancelled, the wait is aborted and ctx.Err() is returned. This is
// the only way to stop an Unbounded policy that keeps failing.
package retry
