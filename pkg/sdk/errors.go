package pdfctx

import "github.com/kailas-cloud/pdfctx/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDatasetUnavailable = domain.ErrDatasetUnavailable
	ErrInvalidDataset     = domain.ErrInvalidDataset
)
