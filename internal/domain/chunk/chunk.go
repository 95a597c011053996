// Package chunk splits extracted page text into paragraph chunks.
//
// Paragraphs are separated by a blank line ("\n\n"). There is no sentence
// detection, token counting or overlap between chunks.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/pdfctx/internal/domain"
)

const paragraphSeparator = "\n\n"

// PageSource exposes the pages of a document as plain text. Pages are 1-based.
type PageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Split returns the chunks of a single page, in paragraph order.
// Whitespace-only pages yield nothing.
func Split(page int, text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []domain.Chunk
	for _, para := range strings.Split(text, paragraphSeparator) {
		clean := strings.TrimSpace(para)
		if utf8.RuneCountInString(clean) <= domain.MinChunkLength {
			continue
		}
		chunks = append(chunks, domain.Chunk{Page: page, Content: clean})
	}
	return chunks
}

// Extract walks every page of src in order and collects its chunks.
func Extract(src PageSource) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for n := 1; n <= src.NumPage(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", n, err)
		}
		chunks = append(chunks, Split(n, text)...)
	}
	return chunks, nil
}
