// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiInTextRe matches a DOI appearing in extracted PDF text. Trailing
// punctuation is trimmed separately since DOIs may legally end in odd
// characters.
var doiInTextRe = regexp.MustCompile(`10\.\d{4,9}/[^\s"<>]+`)

// maxCheckPages bounds how far into a document we look for a DOI; the
// identifier almost always sits on the first page.
const maxCheckPages = 3

// ExtractDOI pulls the first DOI found in the opening pages of a PDF.
// It returns "" when the document has none or cannot be parsed; parse
// failures are not errors since scanned PDFs carry no text layer.
func ExtractDOI(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxCheckPages {
		pages = maxCheckPages
	}
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := doiInTextRe.FindString(text); doi != "" {
			return strings.TrimRight(doi, ".,;)")
		}
	}
	return ""
}
