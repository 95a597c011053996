package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Embedding providers understood by the pipeline.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Default file names. The pipeline writes DefaultOutputFile next to its PDF
// input; the server reads DefaultDatasetFile from its document root. The
// operator copies (and renames) one into the other.
const (
	DefaultOutputFile  = "ai-context-embedded.json"
	DefaultDatasetFile = "ai-context.json"
)

// Config holds the configuration shared by pdfctx-embed and pdfctx-server.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds query server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	Root            string `yaml:"root"`    // static document root
	Dataset         string `yaml:"dataset"` // relative to Root unless absolute
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
}

// PipelineConfig holds chunk/embed pipeline settings.
type PipelineConfig struct {
	SourceDir string `yaml:"source_dir"` // where *.pdf is discovered
	Output    string `yaml:"output"`     // default: <source_dir>/ai-context-embedded.json
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // ollama (default), openai
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"` // 0 = provider default
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds the optional Valkey/Redis embedding cache settings.
// The cache is disabled when Addrs is empty.
type CacheConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// MetricsConfig holds Prometheus settings for the pipeline binary.
// The server always exposes /metrics on its own port.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// Enabled reports whether the embedding cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file is not an error: both binaries must run with no arguments,
// so defaults apply.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	var cfg Config
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	default:
		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.Root == "" {
		c.HTTP.Root = "."
	}
	if c.HTTP.Dataset == "" {
		c.HTTP.Dataset = DefaultDatasetFile
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.Pipeline.SourceDir == "" {
		c.Pipeline.SourceDir = "."
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderOllama
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = defaultBaseURL(c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 60
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "pdfctx:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	switch c.Embedding.Provider {
	case ProviderOllama, ProviderOpenAI:
		// ok
	default:
		return fmt.Errorf(
			"embedding.provider must be %q or %q, got %q",
			ProviderOllama, ProviderOpenAI, c.Embedding.Provider,
		)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// OutputPath is where the pipeline writes the dataset.
func (c *Config) OutputPath() string {
	if c.Pipeline.Output != "" {
		return c.Pipeline.Output
	}
	return filepath.Join(c.Pipeline.SourceDir, DefaultOutputFile)
}

// DatasetPath is where the server reads the dataset from.
func (c *Config) DatasetPath() string {
	if filepath.IsAbs(c.HTTP.Dataset) {
		return c.HTTP.Dataset
	}
	return filepath.Join(c.HTTP.Root, c.HTTP.Dataset)
}

func defaultBaseURL(provider string) string {
	if provider == ProviderOpenAI {
		// Ollama's OpenAI-compatible surface.
		return "http://localhost:11434/v1"
	}
	return "http://localhost:11434"
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
