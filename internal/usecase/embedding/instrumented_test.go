package embedding

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/pdfctx/internal/domain"
	"github.com/kailas-cloud/pdfctx/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func outcome(label string) float64 {
	return testutil.ToFloat64(metrics.PipelineChunksTotal.WithLabelValues(label))
}

func TestInstrumentedEmbedder_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 4,
		TotalTokens:  4,
	}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop())

	before := outcome(metrics.ChunkEmbedded)

	result, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.TotalTokens != 4 {
		t.Fatalf("result not passed through: %+v", result)
	}
	if got := outcome(metrics.ChunkEmbedded) - before; got != 1 {
		t.Errorf("expected embedded outcome +1, got %f", got)
	}
}

func TestInstrumentedEmbedder_Error(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.New(core))

	before := outcome(metrics.ChunkFailed)

	_, err := p.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if got := outcome(metrics.ChunkFailed) - before; got != 1 {
		t.Errorf("expected failed outcome +1, got %f", got)
	}
	if logs.FilterMessage("Embedding request failed").Len() != 1 {
		t.Errorf("expected one error log, got %d", logs.Len())
	}
}

func TestInstrumentedEmbedder_EmptyVector(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop())

	before := outcome(metrics.ChunkFailed)

	_, err := p.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmptyEmbedding) {
		t.Fatalf("expected ErrEmptyEmbedding, got %v", err)
	}
	if got := outcome(metrics.ChunkFailed) - before; got != 1 {
		t.Errorf("expected failed outcome +1, got %f", got)
	}
}
