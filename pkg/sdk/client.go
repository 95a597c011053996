package pdfctx

import (
	"context"
	"errors"
	"fmt"
	"time"

	datasetrepo "github.com/kailas-cloud/pdfctx/internal/repository/dataset"
	healthuc "github.com/kailas-cloud/pdfctx/internal/usecase/health"
	searchuc "github.com/kailas-cloud/pdfctx/internal/usecase/search"
)

// DefaultTopK is the result limit used by the HTTP server when none is given.
const DefaultTopK = searchuc.DefaultTopK

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, query string, topK int) (searchuc.Response, error)
	Metadata(ctx context.Context) (searchuc.MetadataResponse, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the pdfctx SDK entry point.
type Client struct {
	path      string
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client over a dataset file. The file does not have to exist
// yet; queries fail with ErrDatasetUnavailable until it does.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.path == "" {
		return nil, errors.New("pdfctx: dataset path required (use WithDataset)")
	}

	obs, err := newObserver(cfg.path, cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store := datasetrepo.New(cfg.path)
	return &Client{
		path:      cfg.path,
		searchSvc: searchuc.New(store),
		healthSvc: healthuc.New(store),
		obs:       obs,
	}, nil
}

// Path returns the dataset file the client reads.
func (c *Client) Path() string { return c.path }

// Search returns up to topK documents containing query, case-insensitively,
// in stored order.
func (c *Client) Search(ctx context.Context, query string, topK int) (res SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(start, query, topK, res.Total, err) }()

	r, err := c.searchSvc.Search(ctx, query, topK)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return toSearchResponse(r), nil
}

// Metadata returns the dataset header and its document count.
func (c *Client) Metadata(ctx context.Context) (res MetadataResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("metadata", start, err) }()

	r, err := c.searchSvc.Metadata(ctx)
	if err != nil {
		return MetadataResponse{}, fmt.Errorf("metadata: %w", err)
	}
	return toMetadataResponse(r), nil
}
