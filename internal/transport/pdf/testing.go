package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// WriteForTest writes a minimal single-font PDF with one page per entry
// (test-only). Paragraphs of a page are separated by "\n\n" and become
// separate text runs two lines apart. An empty string produces a page
// without a content stream.
func WriteForTest(path string, pages ...string) error {
	var objs []string

	// 1: catalog, 2: page tree, 3: font, then a page (and its content) per entry.
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, "") // page tree, filled once kids are known
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	kids := make([]string, 0, len(pages))
	for _, text := range pages {
		pageID := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))

		if text == "" {
			objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> >>")
			continue
		}

		content := contentStream(text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write test pdf: %w", err)
	}
	return nil
}

func contentStream(text string) string {
	var b strings.Builder
	b.WriteString("BT /F1 12 Tf 72 720 Td 14 TL")
	for i, para := range strings.Split(text, "\n\n") {
		if i > 0 {
			b.WriteString(" T* T*")
		}
		fmt.Fprintf(&b, " (%s) Tj", escapeLiteral(para))
	}
	b.WriteString(" ET")
	return b.String()
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\n", " ")

func escapeLiteral(s string) string { return literalEscaper.Replace(s) }
