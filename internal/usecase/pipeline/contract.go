package pipeline

import (
	"context"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

// DatasetWriter persists the finished dataset.
type DatasetWriter interface {
	Save(ctx context.Context, ds *domain.Dataset) error
	Path() string
}
