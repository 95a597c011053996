package pdfctx

import (
	"context"

	healthuc "github.com/kailas-cloud/pdfctx/internal/usecase/health"
	searchuc "github.com/kailas-cloud/pdfctx/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn   func(ctx context.Context, query string, topK int) (searchuc.Response, error)
	metadataFn func(ctx context.Context) (searchuc.MetadataResponse, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query string, topK int) (searchuc.Response, error) {
	return m.searchFn(ctx, query, topK)
}

func (m *mockSearchUC) Metadata(ctx context.Context) (searchuc.MetadataResponse, error) {
	return m.metadataFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(searchSvc searchUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		path:      "test.json",
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}
