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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/agentkit/retry"
)

// Config holds configuration for the embedding service and its retry policy.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIToken is sent as the bearer token. Local OpenAI-compatible servers
	// ignore it, so the default is "none".
	APIToken string

	// RetryMaxAttempts caps embedding requests per call, first try included.
	// Zero retries until success or cancellation.
	// Default: 3
	RetryMaxAttempts int

	// RetryInitialBackoff is the delay before the second attempt.
	// Default: 1s
	RetryInitialBackoff time.Duration

	// RetryMultiplier grows the delay after every failed attempt.
	// Default: 2.0
	RetryMultiplier float64

	// RetryJitter bounds the random delay added to each wait.
	// Default: 0
	RetryJitter time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIToken sets the bearer token for the embedding service.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithRetryMaxAttempts sets the attempt cap. Zero means unbounded.
func WithRetryMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryBackoff sets the initial backoff and its growth factor.
func WithRetryBackoff(initial time.Duration, multiplier float64) ConfigOption {
	return func(c *Config) {
		c.RetryInitialBackoff = initial
		c.RetryMultiplier = multiplier
	}
}

// WithRetryJitter sets the jitter bound.
func WithRetryJitter(jitter time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryJitter = jitter
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:       "http://localhost:11434/v1",
		EmbeddingModel:      "embeddinggemma",
		APIToken:            "none",
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Second,
		RetryMultiplier:     2.0,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("https://openrouter.ai/api/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithRetryJitter(500*time.Millisecond),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.APIToken == "" {
		c.APIToken = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.RetryMaxAttempts < 0 {
		return fmt.Errorf("ai config: RetryMaxAttempts: %w", retry.ErrInvalidMaxAttempts)
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}
	return nil
}

// RetryPolicy builds the retry policy for embedding requests. Failures are
// classified with IsRetryable and reported to the default slog logger.
func (c *Config) RetryPolicy() *retry.Policy {
	attempts := retry.Unbounded
	if c.RetryMaxAttempts != 0 {
		attempts = retry.Bounded(c.RetryMaxAttempts)
	}

	return retry.NewPolicy(
		retry.WithMaxAttempts(attempts),
		retry.WithInitialBackoff(c.RetryInitialBackoff),
		retry.WithMultiplier(c.RetryMultiplier),
		retry.WithJitter(c.RetryJitter),
		retry.WithRetryable(IsRetryable),
		retry.WithObserver(retry.NewSlogObserver(slog.Default().With("component", "embedding-retry"))),
	)
}
