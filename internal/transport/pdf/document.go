// Package pdf discovers PDF inputs and exposes their pages as plain text.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/pdfctx/internal/domain"
	"github.com/kailas-cloud/pdfctx/internal/domain/chunk"
)

// Compile-time check: Document implements chunk.PageSource.
var _ chunk.PageSource = (*Document)(nil)

// Discover lists the *.pdf files directly inside dir, sorted by name.
// Matching is case-insensitive on the extension. Subdirectories are not walked.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.pdf in %s: %w", dir, domain.ErrNoPDF)
	}

	sort.Strings(paths)
	return paths, nil
}

// Document is an open PDF file.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// Open parses the PDF cross-reference table of path. Page content is decoded
// lazily by PageText.
func Open(path string) (doc *Document, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf %s: malformed document: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Document{path: path, file: f, reader: r}, nil
}

// Name is the base name of the file, as stamped into the dataset metadata.
func (d *Document) Name() string { return filepath.Base(d.path) }

// NumPage returns the number of pages.
func (d *Document) NumPage() int { return d.reader.NumPage() }

// PageText returns the plain text of page n (1-based). Null pages yield "".
func (d *Document) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: malformed content stream: %v", n, r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", n, err)
	}
	return text, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("close pdf %s: %w", d.path, err)
	}
	return nil
}
