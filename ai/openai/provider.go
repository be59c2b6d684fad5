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

package openai

import (
	"log/slog"

	"github.com/poiesic/agentkit/ai"
	"github.com/poiesic/agentkit/retry"
)

// Provider implements ai.Provider using an OpenAI-compatible service.
// Its embedder retries transient failures according to the config's retry settings.
type Provider struct {
	config   *ai.Config
	embedder *ai.RetryingEmbedder
	logger   *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	executor, err := retry.NewExecutor(config.RetryPolicy())
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("created provider",
		"host", config.EmbeddingHost,
		"model", config.EmbeddingModel,
		"maxAttempts", executor.Policy().MaxAttempts.String(),
	)

	return &Provider{
		config:   config,
		embedder: ai.NewRetryingEmbedder(embedder, executor),
		logger:   logger,
	}, nil
}

// Embedder returns the retrying text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
