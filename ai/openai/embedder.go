package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/agentkit/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// It makes a single request per call; retries are layered on by Provider.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIToken),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates an embedder without retries using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Debug("embedding request failed", "err", err)
		return nil, err
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, ai.ErrEmptyEmbedding
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Debug("embedding request failed", "count", len(texts), "err", err)
		return nil, err
	}

	if len(vectors) != len(texts) {
		e.logger.Warn("embedder returned wrong number of vectors", "want", len(texts), "got", len(vectors))
		return nil, fmt.Errorf("%w: want %d vectors, got %d", ai.ErrEmptyEmbedding, len(texts), len(vectors))
	}

	return vectors, nil
}
