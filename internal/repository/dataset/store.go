// Package dataset persists the embedded dataset as a single JSON file.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

const filePerm = 0o644

// Store reads and writes one dataset file. It keeps no state between calls:
// every Load sees the file as it is on disk at that moment.
type Store struct {
	path string
}

// New creates a store for the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// Save replaces the file with ds. The document is written to a temporary
// file in the same directory and renamed over the target, so readers never
// observe a partial file.
func (s *Store) Save(ctx context.Context, ds *domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}

// Load reads and decodes the file. Missing fields decode to zero values;
// only unreadable files and malformed JSON are errors.
func (s *Store) Load(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", s.path, err, domain.ErrDatasetUnavailable)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", s.path, err, domain.ErrInvalidDataset)
	}
	if ds.Documents == nil {
		ds.Documents = []domain.EmbeddedDocument{}
	}
	return &ds, nil
}

// Ping checks that the file exists and is a regular file.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", s.path, domain.ErrDatasetUnavailable)
		}
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file: %w", s.path, domain.ErrDatasetUnavailable)
	}
	return nil
}
