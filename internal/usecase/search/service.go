// Package search answers substring queries and metadata lookups over the
// dataset file.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

const (
	// DefaultTopK is used when the caller gives no limit.
	DefaultTopK = 5
	// SnippetLength is the snippet prefix length in characters.
	SnippetLength = 200
	snippetSuffix = "..."
)

// Hit is a matching document.
type Hit struct {
	ID      string `json:"id"`
	Page    int    `json:"page"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
}

// Response is the /api/search payload.
type Response struct {
	Query   string `json:"query"`
	Results []Hit  `json:"results"`
	Total   int    `json:"total"`
}

// MetadataResponse is the /api/metadata payload.
type MetadataResponse struct {
	Metadata      domain.Metadata     `json:"metadata"`
	Instructions  domain.Instructions `json:"instructions"`
	DocumentCount int                 `json:"document_count"`
}

// Service reads the dataset on every call.
type Service struct {
	repo DatasetLoader
}

// New creates a search service.
func New(repo DatasetLoader) *Service {
	return &Service{repo: repo}
}

// Search returns up to topK documents whose content contains query,
// case-insensitively, in stored order. The empty query matches every
// document. A topK of zero or less yields no results.
func (s *Service) Search(ctx context.Context, query string, topK int) (Response, error) {
	ds, err := s.repo.Load(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("load dataset: %w", err)
	}

	resp := Response{Query: query, Results: []Hit{}}
	if topK <= 0 {
		return resp, nil
	}

	needle := strings.ToLower(query)
	for _, doc := range ds.Documents {
		if !strings.Contains(strings.ToLower(doc.Content), needle) {
			continue
		}
		resp.Results = append(resp.Results, Hit{
			ID:      doc.ID,
			Page:    doc.Page,
			Content: doc.Content,
			Snippet: Snippet(doc.Content),
		})
		if len(resp.Results) >= topK {
			break
		}
	}
	resp.Total = len(resp.Results)

	return resp, nil
}

// Metadata returns the dataset header and the number of documents actually
// present, which may differ from metadata.total_documents.
func (s *Service) Metadata(ctx context.Context) (MetadataResponse, error) {
	ds, err := s.repo.Load(ctx)
	if err != nil {
		return MetadataResponse{}, fmt.Errorf("load dataset: %w", err)
	}

	return MetadataResponse{
		Metadata:      ds.Metadata,
		Instructions:  ds.Instructions,
		DocumentCount: len(ds.Documents),
	}, nil
}

// Snippet is the first SnippetLength characters of content followed by
// "..."; the ellipsis is appended even when nothing was cut.
func Snippet(content string) string {
	n := 0
	for i := range content {
		if n == SnippetLength {
			return content[:i] + snippetSuffix
		}
		n++
	}
	return content + snippetSuffix
}
