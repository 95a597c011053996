package domain

import "errors"

var (
	// ErrNoPDF signals that no PDF input could be discovered.
	ErrNoPDF = errors.New("no pdf file found")
	// ErrNoText signals that the PDF produced no chunk worth embedding.
	ErrNoText = errors.New("no text extracted from pdf")
	// ErrDatasetUnavailable signals a missing or unreadable dataset file.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrInvalidDataset signals a dataset file that is not valid JSON.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmptyEmbedding signals a provider answer without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
	// ErrInvalidQuery signals malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query")
)
