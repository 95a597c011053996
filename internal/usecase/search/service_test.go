package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

// --- Mocks ---

type mockLoader struct {
	ds    *domain.Dataset
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context) (*domain.Dataset, error) {
	m.calls++
	return m.ds, m.err
}

func doc(id, content string) domain.EmbeddedDocument {
	return domain.EmbeddedDocument{ID: id, Page: 1, Content: content}
}

func twoDocs() *domain.Dataset {
	return &domain.Dataset{
		Metadata: domain.Metadata{SourceFile: "manuale.pdf", TotalDocuments: 7},
		Documents: []domain.EmbeddedDocument{
			doc("doc_001", "Alpha Beta"),
			doc("doc_002", "beta gamma"),
		},
	}
}

// --- Tests ---

func TestSearch_CaseInsensitiveInOrder(t *testing.T) {
	svc := New(&mockLoader{ds: twoDocs()})

	resp, err := svc.Search(context.Background(), "BETA", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 || len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", resp)
	}
	if resp.Results[0].ID != "doc_001" || resp.Results[1].ID != "doc_002" {
		t.Errorf("results not in stored order: %+v", resp.Results)
	}
	if resp.Query != "BETA" {
		t.Errorf("query must be echoed verbatim, got %q", resp.Query)
	}
}

func TestSearch_TopKStopsEarly(t *testing.T) {
	svc := New(&mockLoader{ds: twoDocs()})

	resp, err := svc.Search(context.Background(), "beta", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "doc_001" {
		t.Fatalf("expected only doc_001, got %+v", resp)
	}
	if resp.Results[0].Snippet != "Alpha Beta..." {
		t.Errorf("unexpected snippet %q", resp.Results[0].Snippet)
	}
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	svc := New(&mockLoader{ds: twoDocs()})

	resp, err := svc.Search(context.Background(), "", DefaultTopK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected every document, got %d", resp.Total)
	}
}

func TestSearch_NoMatchIsEmptyArray(t *testing.T) {
	svc := New(&mockLoader{ds: twoDocs()})

	resp, err := svc.Search(context.Background(), "delta", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Results == nil || resp.Total != 0 {
		t.Errorf("expected empty non-nil results, got %#v", resp.Results)
	}
}

func TestSearch_NonPositiveTopK(t *testing.T) {
	for _, topK := range []int{0, -3} {
		loader := &mockLoader{ds: twoDocs()}
		resp, err := New(loader).Search(context.Background(), "beta", topK)
		if err != nil {
			t.Fatalf("topK=%d: unexpected error: %v", topK, err)
		}
		if resp.Total != 0 || len(resp.Results) != 0 {
			t.Errorf("topK=%d: expected no results, got %d", topK, resp.Total)
		}
		if loader.calls != 1 {
			t.Errorf("topK=%d: dataset must still be loaded (errors surface), got %d loads", topK, loader.calls)
		}
	}
}

func TestSearch_LoadError(t *testing.T) {
	svc := New(&mockLoader{err: domain.ErrDatasetUnavailable})

	_, err := svc.Search(context.Background(), "beta", 5)
	if !errors.Is(err, domain.ErrDatasetUnavailable) {
		t.Fatalf("expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestSearch_ReloadsEveryCall(t *testing.T) {
	loader := &mockLoader{ds: twoDocs()}
	svc := New(loader)

	_, _ = svc.Search(context.Background(), "x", 5)
	loader.ds = &domain.Dataset{Documents: []domain.EmbeddedDocument{doc("doc_009", "fresh x content")}}
	resp, err := svc.Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.calls != 2 || resp.Total != 1 || resp.Results[0].ID != "doc_009" {
		t.Errorf("expected replaced dataset to be visible, got %+v after %d loads", resp, loader.calls)
	}
}

func TestMetadata(t *testing.T) {
	ds := twoDocs()
	ds.Instructions = domain.Instructions{ForAI: domain.InstructionForAI, Usage: domain.InstructionUsage}
	svc := New(&mockLoader{ds: ds})

	resp, err := svc.Metadata(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DocumentCount != 2 {
		t.Errorf("document_count must count documents, got %d", resp.DocumentCount)
	}
	if resp.Metadata.TotalDocuments != 7 {
		t.Errorf("metadata must be passed through, got %+v", resp.Metadata)
	}
	if resp.Instructions.ForAI != domain.InstructionForAI {
		t.Errorf("unexpected instructions %+v", resp.Instructions)
	}
}

func TestMetadata_LoadError(t *testing.T) {
	svc := New(&mockLoader{err: domain.ErrInvalidDataset})

	if _, err := svc.Metadata(context.Background()); !errors.Is(err, domain.ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("è", 250)

	tests := []struct {
		name  string
		in    string
		runes int
	}{
		{"short", "Alpha Beta", 10 + 3},
		{"exact", strings.Repeat("a", 200), 200 + 3},
		{"long multibyte", long, 200 + 3},
		{"empty", "", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Snippet(tc.in)
			if !strings.HasSuffix(got, "...") {
				t.Errorf("snippet must end with ellipsis: %q", got)
			}
			if n := utf8.RuneCountInString(got); n != tc.runes {
				t.Errorf("expected %d runes, got %d", tc.runes, n)
			}
			if !utf8.ValidString(got) {
				t.Error("snippet must be valid UTF-8")
			}
		})
	}
}
