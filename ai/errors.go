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

package ai

import (
	"context"
	"errors"
)

var (
	// ErrEmptyText is returned when asked to embed an empty string.
	ErrEmptyText = errors.New("text to embed cannot be empty")

	// ErrEmptyEmbedding indicates the service answered without any vectors.
	ErrEmptyEmbedding = errors.New("embedding service returned no embeddings")
)

// IsRetryable reports whether an embedding failure is worth another attempt.
//
// Cancellation and invalid input are the caller's problem and fail fast.
// Everything else, including transport failures, error status codes and
// bodies that do not decode as JSON, is assumed to be transient.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrEmptyText):
		return false
	}
	return true
}
