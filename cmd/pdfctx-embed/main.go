// pdfctx-embed extracts the text of a PDF, splits it into paragraph chunks,
// embeds every chunk and writes the dataset JSON consumed by pdfctx-server.
//
// Usage:
//
//	pdfctx-embed [-pdf manual.pdf] [-out ai-context-embedded.json] [-model nomic-embed-text]
//
// Without -pdf the first *.pdf (by name) in pipeline.source_dir is used.
//
// Env vars:
//
//	ENV: config file to load from config/<ENV>.yaml (default: local)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/config"
	"github.com/kailas-cloud/pdfctx/internal/domain"
	logpkg "github.com/kailas-cloud/pdfctx/internal/logger"
	"github.com/kailas-cloud/pdfctx/internal/metrics"
	datasetrepo "github.com/kailas-cloud/pdfctx/internal/repository/dataset"
	"github.com/kailas-cloud/pdfctx/internal/transport/pdf"
	"github.com/kailas-cloud/pdfctx/internal/usecase/pipeline"
	"github.com/kailas-cloud/pdfctx/internal/version"
)

const separator = "============================================================"

type options struct {
	pdfPath     string
	outPath     string
	model       string
	provider    string
	baseURL     string
	metricsPort int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.pdfPath, "pdf", "", "PDF to process (default: first *.pdf in pipeline.source_dir)")
	flag.StringVar(&o.outPath, "out", "", "output file (default: <source_dir>/"+config.DefaultOutputFile+")")
	flag.StringVar(&o.model, "model", "", "embedding model (overrides embedding.model)")
	flag.StringVar(&o.provider, "provider", "", "embedding provider: ollama or openai (overrides embedding.provider)")
	flag.StringVar(&o.baseURL, "base-url", "", "embedding server URL (overrides embedding.base_url)")
	flag.IntVar(&o.metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port while running (0 = off)")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pdfctx-embed",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
	)

	metrics.RegisterEmbeddingMetrics()
	if cfg.Metrics.Port > 0 {
		metricsSrv := serveMetrics(cfg.Metrics.Port, logger)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = metricsSrv.Shutdown(shutCtx)
		}()
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "pdfctx-embed: AI context embeddings generator")
	fmt.Fprintln(out, separator)

	pdfPath, err := selectPDF(cfg, opts.pdfPath, out)
	if err != nil {
		if errors.Is(err, domain.ErrNoPDF) {
			fmt.Fprintf(out, "No PDF file found in %s\n", cfg.Pipeline.SourceDir)
			fmt.Fprintln(out, "   Put a PDF file in that directory or pass -pdf")
		}
		return err
	}

	doc, err := pdf.Open(pdfPath)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	embedder, closeEmbedder, err := buildEmbedder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	fmt.Fprintf(out, "Embedding model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Fprintf(out, "Reading PDF: %s (%d pages)\n", pdfPath, doc.NumPage())
	fmt.Fprintln(out, "Generating embeddings...")

	store := datasetrepo.New(cfg.OutputPath())
	svc := pipeline.New(embedder, store, cfg.Embedding.Model, out, logger)

	report, err := svc.Run(ctx, pipeline.Source{Name: doc.Name(), Pages: doc})
	if err != nil {
		if errors.Is(err, domain.ErrNoText) {
			fmt.Fprintln(out, "No text extracted from the PDF")
		}
		return err
	}

	fmt.Fprintf(out, "Generated %d embeddings from %d chunks", report.Documents, report.Chunks)
	if report.Failed > 0 {
		fmt.Fprintf(out, " (%d failed)", report.Failed)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "File saved: %s\n", report.OutputPath)
	fmt.Fprintf(out, "Vector dimension: %d\n", report.VectorDimension)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done!")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "   1. Copy '%s' to the site root as '%s'\n", filepath.Base(report.OutputPath), config.DefaultDatasetFile)
	fmt.Fprintln(out, "   2. Point index.html at the new JSON file")

	return nil
}

// applyOverrides lets command-line flags win over the config file.
func applyOverrides(cfg *config.Config, o options) {
	if o.outPath != "" {
		cfg.Pipeline.Output = o.outPath
	}
	if o.model != "" {
		cfg.Embedding.Model = o.model
	}
	if provider := strings.ToLower(o.provider); provider != "" && provider != cfg.Embedding.Provider {
		cfg.Embedding.Provider = provider
		if o.baseURL == "" {
			cfg.Embedding.BaseURL = ""
			cfg.ApplyDefaults()
		}
	}
	if o.baseURL != "" {
		cfg.Embedding.BaseURL = o.baseURL
	}
	if o.metricsPort > 0 {
		cfg.Metrics.Port = o.metricsPort
	}
}

// selectPDF returns the explicit path, or lists the PDFs of the source
// directory and picks the first.
func selectPDF(cfg config.Config, explicit string, out io.Writer) (string, error) {
	if explicit != "" {
		fmt.Fprintf(out, "\nProcessing: %s\n", filepath.Base(explicit))
		return explicit, nil
	}

	found, err := pdf.Discover(cfg.Pipeline.SourceDir)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(out, "\nPDF files found:")
	for i, p := range found {
		fmt.Fprintf(out, "   %d. %s\n", i+1, filepath.Base(p))
	}
	fmt.Fprintf(out, "\nProcessing: %s\n", filepath.Base(found[0]))
	return found[0], nil
}
