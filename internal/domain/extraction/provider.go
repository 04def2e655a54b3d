package extraction

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContentProvider resolves a document reference to its rendered page
// content. Rendering itself (PDF layout analysis, table detection) is an
// external concern; the engine only consumes the result.
type ContentProvider interface {
	Document(ctx context.Context, ref string) (Document, error)
}

// FileProvider reads pre-rendered documents from disk, resolving references
// against a root directory. PDF files are rendered to per-page text lines;
// anything else is treated as rendered text with form-feed page breaks.
// Table grids are only available from richer renderers, so documents loaded
// here carry text lines only.
type FileProvider struct {
	Root string
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Root: dir}
}

// Document loads and renders the referenced file.
func (p *FileProvider) Document(ctx context.Context, ref string) (Document, error) {
	path := ref
	if p.Root != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(p.Root, ref)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	return readText(path)
}

// readText loads a rendered-text document, splitting pages on form feeds.
func readText(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var doc Document
	page := RawPage{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "\f") {
			parts := strings.Split(line, "\f")
			page.Lines = append(page.Lines, parts[0])
			doc.Pages = append(doc.Pages, page)
			page = RawPage{Lines: parts[1:]}
			continue
		}
		page.Lines = append(page.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}
	if len(page.Lines) > 0 {
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// StaticProvider serves fixed in-memory documents, keyed by reference.
// Used by tests to inject fixtures.
type StaticProvider map[string]Document

// Document returns the stored document for ref.
func (p StaticProvider) Document(_ context.Context, ref string) (Document, error) {
	doc, ok := p[ref]
	if !ok {
		return Document{}, fmt.Errorf("unknown document %q", ref)
	}
	return doc, nil
}
