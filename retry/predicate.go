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

import "errors"

// Predicate reports whether err qualifies for another attempt.
type Predicate func(err error) bool

// RetryAll treats every error as retryable.
func RetryAll(err error) bool {
	return err != nil
}

// RetryOn retries errors matching any of targets via errors.Is.
func RetryOn(targets ...error) Predicate {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// RetryOnType retries errors whose chain contains an E.
func RetryOnType[E error]() Predicate {
	return func(err error) bool {
		var target E
		return errors.As(err, &target)
	}
}

// Not inverts p. A nil error is never retryable.
func Not(p Predicate) Predicate {
	return func(err error) bool {
		return err != nil && !p(err)
	}
}
