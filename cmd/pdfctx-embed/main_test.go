package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/pdfctx/internal/config"
	"github.com/kailas-cloud/pdfctx/internal/domain"
)

func defaultConfig() config.Config {
	var cfg config.Config
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyOverrides(t *testing.T) {
	cfg := defaultConfig()
	applyOverrides(&cfg, options{
		outPath:     "/tmp/out.json",
		model:       "mxbai-embed-large",
		provider:    "OpenAI",
		metricsPort: 9100,
	})

	if cfg.OutputPath() != "/tmp/out.json" {
		t.Errorf("unexpected output path %q", cfg.OutputPath())
	}
	if cfg.Embedding.Model != "mxbai-embed-large" {
		t.Errorf("unexpected model %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Provider != config.ProviderOpenAI {
		t.Errorf("unexpected provider %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("switching provider must reset the base URL default, got %q", cfg.Embedding.BaseURL)
	}
	if cfg.Metrics.Port != 9100 {
		t.Errorf("unexpected metrics port %d", cfg.Metrics.Port)
	}
}

func TestApplyOverrides_ExplicitBaseURLWins(t *testing.T) {
	cfg := defaultConfig()
	applyOverrides(&cfg, options{provider: "openai", baseURL: "http://gpu-box:8000/v1"})

	if cfg.Embedding.BaseURL != "http://gpu-box:8000/v1" {
		t.Errorf("unexpected base URL %q", cfg.Embedding.BaseURL)
	}
}

func TestApplyOverrides_SameProviderKeepsBaseURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Embedding.Provider = config.ProviderOpenAI
	cfg.Embedding.BaseURL = "http://gpu-box:8000/v1"
	applyOverrides(&cfg, options{provider: "OpenAI"})

	if cfg.Embedding.Provider != config.ProviderOpenAI {
		t.Errorf("unexpected provider %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.BaseURL != "http://gpu-box:8000/v1" {
		t.Errorf("same provider in another case must keep the base URL, got %q", cfg.Embedding.BaseURL)
	}
}

func TestApplyOverrides_NoFlagsKeepsConfig(t *testing.T) {
	cfg := defaultConfig()
	want := cfg
	applyOverrides(&cfg, options{})

	if cfg.Embedding != want.Embedding || cfg.Pipeline != want.Pipeline {
		t.Errorf("config changed without flags: %+v", cfg)
	}
}

func TestSelectPDF_FirstByName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfg := defaultConfig()
	cfg.Pipeline.SourceDir = dir

	var out bytes.Buffer
	got, err := selectPDF(cfg, "", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "a.pdf") {
		t.Errorf("expected a.pdf, got %s", got)
	}
	if !strings.Contains(out.String(), "1. a.pdf") || !strings.Contains(out.String(), "2. b.pdf") {
		t.Errorf("expected listing of found files, got %q", out.String())
	}
}

func TestSelectPDF_Explicit(t *testing.T) {
	var out bytes.Buffer
	got, err := selectPDF(defaultConfig(), "/data/manual.pdf", &out)
	if err != nil || got != "/data/manual.pdf" {
		t.Fatalf("expected explicit path, got %q, %v", got, err)
	}
}

func TestSelectPDF_None(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pipeline.SourceDir = t.TempDir()

	_, err := selectPDF(cfg, "", &bytes.Buffer{})
	if !errors.Is(err, domain.ErrNoPDF) {
		t.Fatalf("expected ErrNoPDF, got %v", err)
	}
}
