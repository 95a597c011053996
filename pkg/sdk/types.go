package pdfctx

import searchuc "github.com/kailas-cloud/pdfctx/internal/usecase/search"

// Hit is a document matching a search.
type Hit struct {
	ID      string
	Page    int
	Content string
	Snippet string // first 200 characters followed by "..."
}

// SearchResponse is the result of Client.Search.
type SearchResponse struct {
	Query   string
	Results []Hit
	Total   int
}

// MetadataResponse is the result of Client.Metadata.
type MetadataResponse struct {
	Version         string
	SourceFile      string
	EmbeddingModel  string
	VectorDimension int
	TotalDocuments  int
	DocumentCount   int
	ForAI           string
	Usage           string
}

func toSearchResponse(r searchuc.Response) SearchResponse {
	hits := make([]Hit, len(r.Results))
	for i, h := range r.Results {
		hits[i] = Hit{ID: h.ID, Page: h.Page, Content: h.Content, Snippet: h.Snippet}
	}
	return SearchResponse{Query: r.Query, Results: hits, Total: r.Total}
}

func toMetadataResponse(r searchuc.MetadataResponse) MetadataResponse {
	return MetadataResponse{
		Version:         r.Metadata.Version,
		SourceFile:      r.Metadata.SourceFile,
		EmbeddingModel:  r.Metadata.EmbeddingModel,
		VectorDimension: r.Metadata.VectorDimension,
		TotalDocuments:  r.Metadata.TotalDocuments,
		DocumentCount:   r.DocumentCount,
		ForAI:           r.Instructions.ForAI,
		Usage:           r.Instructions.Usage,
	}
}
