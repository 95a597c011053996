// Package ollama is the embedding provider for a local Ollama server,
// driven through langchaingo.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/domain"
	"github.com/kailas-cloud/pdfctx/internal/metrics"
)

// Compile-time check: Embedder implements domain.Embedder.
var _ domain.Embedder = (*Embedder)(nil)

// queryEmbedder is the slice of langchaingo's embeddings.Embedder we use.
type queryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Config holds the Ollama provider settings.
type Config struct {
	BaseURL  string
	Model    string
	Timeout  time.Duration
	Provider string
	Logger   *zap.Logger
}

// Embedder calls Ollama's embedding endpoint once per text.
// Ollama does not report token usage, so results carry zero counts.
type Embedder struct {
	client   queryEmbedder
	model    string
	provider string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewEmbedder creates an Ollama-backed embedder. No request is made here:
// the model is neither listed nor pulled.
func NewEmbedder(cfg *Config) (*Embedder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama client: %w", err)
	}

	// Newlines separate paragraphs inside a chunk and are meaningful to the model.
	emb, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, fmt.Errorf("init ollama embedder: %w", err)
	}

	return newEmbedder(emb, cfg), nil
}

func newEmbedder(client queryEmbedder, cfg *Config) *Embedder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "ollama"
	}
	return &Embedder{
		client:   client,
		model:    cfg.Model,
		provider: provider,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	vec, err := e.client.EmbedQuery(ctx, text)

	duration := time.Since(start)

	if err != nil {
		e.recordError("api_error")
		return domain.EmbeddingResult{}, fmt.Errorf(
			"ollama model %s: %w: %w", e.model, err, domain.ErrEmbeddingProviderError)
	}
	if len(vec) == 0 {
		e.recordError("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("ollama model %s returned no vector: %w", e.model, domain.ErrEmptyEmbedding)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: vec}, nil
}

func (e *Embedder) recordError(errorType string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, errorType).Inc()
}
