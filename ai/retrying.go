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
	"log/slog"

	"github.com/poiesic/agentkit/retry"
)

// RetryingEmbedder runs every request of an inner Embedder through a retry executor.
type RetryingEmbedder struct {
	inner    Embedder
	executor *retry.Executor
	logger   *slog.Logger
}

// NewRetryingEmbedder wraps inner so that each call is retried according to executor.
// Panics if inner or executor is nil.
func NewRetryingEmbedder(inner Embedder, executor *retry.Executor) *RetryingEmbedder {
	if inner == nil {
		panic("inner embedder cannot be nil")
	}
	if executor == nil {
		panic("retry executor cannot be nil")
	}
	return &RetryingEmbedder{
		inner:    inner,
		executor: executor,
		logger:   slog.Default().With("component", "retrying-embedder"),
	}
}

// EmbedText embeds a single text, retrying transient failures.
func (r *RetryingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vec, err := retry.Do(ctx, r.executor, func(ctx context.Context) ([]float32, error) {
		return r.inner.EmbedText(ctx, text)
	})
	if err != nil {
		r.logger.Error("failed to generate embedding", "length", len(text), "err", err)
		return nil, err
	}
	return vec, nil
}

// EmbedTexts embeds a batch as one unit: a failure retries the whole batch.
func (r *RetryingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if text == "" {
			return nil, ErrEmptyText
		}
	}

	vecs, err := retry.Do(ctx, r.executor, func(ctx context.Context) ([][]float32, error) {
		return r.inner.EmbedTexts(ctx, texts)
	})
	if err != nil {
		r.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vecs, nil
}
