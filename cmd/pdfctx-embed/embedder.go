package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/config"
	dbValkey "github.com/kailas-cloud/pdfctx/internal/db/valkey"
	"github.com/kailas-cloud/pdfctx/internal/domain"
	"github.com/kailas-cloud/pdfctx/internal/metrics"
	"github.com/kailas-cloud/pdfctx/internal/repository/embcache"
	ollamaEmb "github.com/kailas-cloud/pdfctx/internal/transport/ollama"
	openaiEmb "github.com/kailas-cloud/pdfctx/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/pdfctx/internal/usecase/embedding"
)

const cacheReadyTimeout = 5 * time.Second

// buildEmbedder assembles the decorator chain: provider -> cache (optional) -> instrumented.
// The returned func releases the cache connection.
func buildEmbedder(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Embedder, func(), error) {
	ec := cfg.Embedding
	timeout := time.Duration(ec.TimeoutSec) * time.Second

	var base domain.Embedder
	switch ec.Provider {
	case config.ProviderOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			Dimensions: ec.Dimensions,
			Timeout:    timeout,
			Provider:   ec.Provider,
			Logger:     logger,
		})
	default:
		emb, err := ollamaEmb.NewEmbedder(&ollamaEmb.Config{
			BaseURL:  ec.BaseURL,
			Model:    ec.Model,
			Timeout:  timeout,
			Provider: ec.Provider,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("embedding provider: %w", err)
		}
		base = emb
	}

	embedder := base
	closeFn := func() {}

	if cfg.Cache.Enabled() {
		store, err := connectCache(ctx, cfg.Cache)
		if err != nil {
			// The cache is an optimisation; run without it.
			logger.Warn("Embedding cache unavailable, continuing without it",
				zap.Strings("addrs", cfg.Cache.Addrs),
				zap.Error(err),
			)
		} else {
			logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
			embedder = embcache.New(base, store, embcache.Config{
				KeyPrefix:  cfg.Cache.KeyPrefix,
				Model:      ec.Model,
				CacheTotal: metrics.EmbeddingCacheTotal,
				Logger:     logger,
			})
			closeFn = store.Close
		}
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, ec.Provider, ec.Model, logger), closeFn, nil
}

func connectCache(ctx context.Context, cc config.CacheConfig) (*dbValkey.Store, error) {
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cc.Addrs,
		Password: cc.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache client: %w", err)
	}
	if err := store.WaitForReady(ctx, cacheReadyTimeout); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
