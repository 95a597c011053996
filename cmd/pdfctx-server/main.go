// pdfctx-server serves a directory of static files with permissive CORS
// headers and answers search and metadata queries over the dataset JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pdfctx/internal/config"
	logpkg "github.com/kailas-cloud/pdfctx/internal/logger"
	datasetrepo "github.com/kailas-cloud/pdfctx/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/pdfctx/internal/transport/chi"
	healthuc "github.com/kailas-cloud/pdfctx/internal/usecase/health"
	searchuc "github.com/kailas-cloud/pdfctx/internal/usecase/search"
	"github.com/kailas-cloud/pdfctx/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pdfctx-server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("root", cfg.HTTP.Root),
		zap.String("dataset", cfg.DatasetPath()),
	)

	store := datasetrepo.New(cfg.DatasetPath())
	if err := store.Ping(context.Background()); err != nil {
		logger.Warn("Dataset not found yet, API calls will fail until it exists", zap.Error(err))
	}

	searchSvc := searchuc.New(store)
	healthSvc := healthuc.New(store)
	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.HTTP.Root, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	printEndpoints(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	// No draining: in-flight requests are cut.
	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	fmt.Println("\n\nServer stopped.")
}

func printEndpoints(cfg config.Config) {
	base := fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)

	fmt.Printf("Starting server on %s\n", base)
	fmt.Println("Press Ctrl+C to stop the server")
	fmt.Println("\nAI-readable endpoints:")
	fmt.Printf("  - %s/               (Main page)\n", base)
	fmt.Printf("  - %s/%s (Full dataset)\n", base, cfg.HTTP.Dataset)
	fmt.Printf("  - %s%s    (Dataset metadata)\n", base, chiTransport.MetadataPath)
	fmt.Printf("  - %s%s?q=query&topK=5 (Search)\n", base, chiTransport.SearchPath)
}
