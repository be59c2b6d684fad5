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

// Policy validation errors
var (
	// ErrNilPolicy is returned when NewExecutor is given a nil policy.
	ErrNilPolicy = errors.New("retry policy cannot be nil")

	// ErrInvalidMaxAttempts indicates a bounded attempt limit below 1.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")

	// ErrNegativeBackoff indicates a negative initial backoff.
	ErrNegativeBackoff = errors.New("initial backoff cannot be negative")

	// ErrInvalidMultiplier indicates a backoff multiplier below 1 or not finite.
	ErrInvalidMultiplier = errors.New("backoff multiplier must be a finite number >= 1")

	// ErrNegativeJitter indicates a negative jitter bound.
	ErrNegativeJitter = errors.New("jitter cannot be negative")
)
