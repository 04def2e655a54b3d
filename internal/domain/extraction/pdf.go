package extraction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// readPDF renders a text-layer PDF into per-page lines. Image-only (scanned)
// PDFs yield empty pages; OCR is out of scope.
func readPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	var doc Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, RawPage{})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades to an empty page rather
			// than failing the document.
			doc.Pages = append(doc.Pages, RawPage{})
			continue
		}

		doc.Pages = append(doc.Pages, RawPage{Lines: splitPDFLines(text)})
	}
	return doc, nil
}

func splitPDFLines(text string) []string {
	if !utf8.ValidString(text) {
		var sb strings.Builder
		sb.Grow(len(text))
		for _, r := range text {
			sb.WriteRune(r)
		}
		text = sb.String()
	}
	return strings.Split(text, "\n")
}
