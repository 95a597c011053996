package search

import (
	"context"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

// DatasetLoader reads the current dataset. Implementations must not cache:
// a file replaced on disk is visible to the next call.
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}
