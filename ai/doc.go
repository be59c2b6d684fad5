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

// Package ai provides abstractions for the embedding service used by agents.
//
// The package defines the Embedder interface and the Provider that owns one,
// along with Config, the settings shared by implementations, including the
// retry policy applied to every embedding request.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Retries
//
// Embedding services fail in ways that clear up on their own: rate limits,
// gateway errors, and proxies that answer with an HTML page instead of JSON.
// RetryingEmbedder wraps any Embedder with a retry.Executor. IsRetryable is
// the classifier used by Config.RetryPolicy; it lets cancellation and
// invalid input fail fast and retries everything else.
//
//	exec, err := retry.NewExecutor(cfg.RetryPolicy())
//	if err != nil {
//	    return err
//	}
//	embedder := ai.NewRetryingEmbedder(inner, exec)
//	vec, err := embedder.EmbedText(ctx, "High inflation with rising interest rates")
package ai
