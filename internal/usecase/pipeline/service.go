// Package pipeline turns the pages of one PDF into an embedded dataset file.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/domain"
	"github.com/kailas-cloud/pdfctx/internal/domain/chunk"
)

// Source is one input document.
type Source struct {
	// Name is stamped into the dataset as source_file.
	Name  string
	Pages chunk.PageSource
}

// Report summarises a finished run.
type Report struct {
	Chunks          int
	Documents       int
	Failed          int
	VectorDimension int
	OutputPath      string
}

// Service runs the chunk/embed pipeline. Chunks are embedded one at a time,
// in order.
type Service struct {
	embedder domain.Embedder
	store    DatasetWriter
	model    string
	progress io.Writer
	logger   *zap.Logger
}

// New creates a Service. progress receives one "Processing i/N..." line per
// chunk and may be nil.
func New(embedder domain.Embedder, store DatasetWriter, model string, progress io.Writer, logger *zap.Logger) *Service {
	if progress == nil {
		progress = io.Discard
	}
	return &Service{
		embedder: embedder,
		store:    store,
		model:    model,
		progress: progress,
		logger:   logger,
	}
}

// Run extracts, embeds and saves src.
//
// A source without any usable chunk fails with domain.ErrNoText and nothing
// is written. A chunk whose embedding fails is logged and dropped; the run
// goes on and the dataset is written even if every chunk failed.
// Cancelling ctx stops before the next chunk and nothing is written.
func (s *Service) Run(ctx context.Context, src Source) (Report, error) {
	chunks, err := chunk.Extract(src.Pages)
	if err != nil {
		return Report{}, fmt.Errorf("extract %s: %w", src.Name, err)
	}
	if len(chunks) == 0 {
		return Report{}, fmt.Errorf("%s: %w", src.Name, domain.ErrNoText)
	}

	s.logger.Info("Chunks extracted",
		zap.String("source", src.Name),
		zap.Int("chunks", len(chunks)),
	)

	docs, err := s.embedAll(ctx, chunks)
	if err != nil {
		return Report{}, err
	}

	ds := domain.NewDataset(src.Name, s.model, docs)
	if err := s.store.Save(ctx, &ds); err != nil {
		return Report{}, fmt.Errorf("save dataset: %w", err)
	}

	report := Report{
		Chunks:          len(chunks),
		Documents:       len(docs),
		Failed:          len(chunks) - len(docs),
		VectorDimension: ds.Metadata.VectorDimension,
		OutputPath:      s.store.Path(),
	}

	s.logger.Info("Dataset written",
		zap.String("path", report.OutputPath),
		zap.Int("documents", report.Documents),
		zap.Int("failed", report.Failed),
		zap.Int("vector_dimension", report.VectorDimension),
	)

	return report, nil
}

func (s *Service) embedAll(ctx context.Context, chunks []domain.Chunk) ([]domain.EmbeddedDocument, error) {
	docs := make([]domain.EmbeddedDocument, 0, len(chunks))
	total := len(chunks)

	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			_, _ = fmt.Fprintln(s.progress)
			return nil, fmt.Errorf("embedding interrupted at chunk %d/%d: %w", i+1, total, err)
		}

		idx := i + 1
		_, _ = fmt.Fprintf(s.progress, "   Processing %d/%d...\r", idx, total)

		res, err := s.embedder.Embed(ctx, c.Content)
		if err == nil && len(res.Embedding) == 0 {
			err = domain.ErrEmptyEmbedding
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				_, _ = fmt.Fprintln(s.progress)
				return nil, fmt.Errorf("embedding interrupted at chunk %d/%d: %w", idx, total, ctxErr)
			}
			s.logger.Warn("Chunk dropped",
				zap.String("id", domain.DocumentID(idx)),
				zap.Int("page", c.Page),
				zap.Error(err),
			)
			continue
		}

		docs = append(docs, domain.NewEmbeddedDocument(idx, c, res.Embedding))
	}
	_, _ = fmt.Fprintln(s.progress)

	return docs, nil
}
