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

import "strconv"

// Attempts is the cap on how many times an operation may be invoked,
// counting the first try. Use Bounded or Unbounded to build one.
type Attempts struct {
	limit   int
	bounded bool
}

// Unbounded keeps retrying until the operation succeeds, fails with a
// non-retryable error, or the context is cancelled.
var Unbounded = Attempts{}

// Bounded caps the number of invocations at n. n must be at least 1 for the
// policy to validate.
func Bounded(n int) Attempts {
	return Attempts{limit: n, bounded: true}
}

// Limit returns the invocation cap and true, or 0 and false when unbounded.
func (a Attempts) Limit() (int, bool) {
	return a.limit, a.bounded
}

// IsUnbounded reports whether a has no cap.
func (a Attempts) IsUnbounded() bool {
	return !a.bounded
}

// Exhausted reports whether attempt (1-based) is the last one allowed.
func (a Attempts) Exhausted(attempt int) bool {
	return a.bounded && attempt >= a.limit
}

func (a Attempts) String() string {
	if !a.bounded {
		return "unbounded"
	}
	return strconv.Itoa(a.limit)
}

func (a Attempts) validate() error {
	if a.bounded && a.limit < 1 {
		return ErrInvalidMaxAttempts
	}
	return nil
}
