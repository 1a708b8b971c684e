// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identify

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  Kind
		wantValue string
	}{
		{"arxiv bare", "2301.07041", KindArxiv, "2301.07041"},
		{"arxiv prefixed", "arXiv:2301.07041", KindArxiv, "2301.07041"},
		{"arxiv versioned", "1706.03762v5", KindArxiv, "1706.03762"},
		{"arxiv old style", "hep-th/9901001", KindArxiv, "hep-th/9901001"},
		{"arxiv abs url", "https://arxiv.org/abs/1706.03762", KindArxiv, "1706.03762"},
		{"arxiv pdf url", "https://arxiv.org/pdf/1706.03762v2", KindArxiv, "1706.03762"},
		{"doi simple", "10.1145/1234567.1234568", KindDOI, "10.1145/1234567.1234568"},
		{"doi url", "https://doi.org/10.1038/s41586-024-07487-w", KindDOI, "10.1038/s41586-024-07487-w"},
		{"doi prefixed", "doi:10.1016/j.cell.2023.01.001", KindDOI, "10.1016/j.cell.2023.01.001"},
		{"pmc", "PMC8675309", KindPMC, "PMC8675309"},
		{"pmc lowercase", "pmc123", KindPMC, "PMC123"},
		{"pmid", "PMID:31452104", KindPubMed, "31452104"},
		{"openalex", "W2741809807", KindOpenAlex, "W2741809807"},
		{"semantic scholar hash", "649def34f8be52c8b66281af98ae884c09aef38b", KindSemanticScholar, "649def34f8be52c8b66281af98ae884c09aef38b"},
		{"pdf url", "https://example.com/files/paper.pdf", KindPDFURL, "https://example.com/files/paper.pdf"},
		{"title", "Attention Is All You Need", KindTitle, "Attention Is All You Need"},
		{"one-word title", "Mamba", KindTitle, "Mamba"},
		{"unknown bare digits", "123456789012", KindUnknown, "123456789012"},
		{"unknown empty", "", KindUnknown, ""},
		{"whitespace trimmed", "  2301.07041  ", KindArxiv, "2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Kind != tt.wantKind {
				t.Errorf("Parse(%q) kind = %v, want %v", tt.input, got.Kind, tt.wantKind)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Parse(%q) value = %q, want %q", tt.input, got.Value, tt.wantValue)
			}
		})
	}
}

func TestParseArxivDOI(t *testing.T) {
	id := Parse("10.48550/arXiv.1706.03762")
	if id.Kind != KindDOI {
		t.Fatalf("kind = %v, want KindDOI", id.Kind)
	}
	if id.DOI != "10.48550/arXiv.1706.03762" {
		t.Errorf("DOI = %q", id.DOI)
	}
	if id.ArxivID != "1706.03762" {
		t.Errorf("ArxivID = %q, want 1706.03762", id.ArxivID)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"doi wins", "10.1145/1234567", "10.1145/1234567"},
		{"arxiv id", "arXiv:2301.07041", "2301.07041"},
		{"title falls through", "A Paper About Things", "A Paper About Things"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input).Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"doi slashes", "10.1145/1234567.1234568", "10.1145-1234567.1234568"},
		{"title spaces", "Attention Is All You Need", "Attention_Is_All_You_Need"},
		{"arxiv", "2301.07041", "2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input).Slug(); got != tt.want {
				t.Errorf("Slug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsable(t *testing.T) {
	if Parse("123456789012").Usable() {
		t.Error("bare digit run should not be usable")
	}
	if !Parse("2301.07041").Usable() {
		t.Error("arXiv ID should be usable")
	}
	if !Parse("Mamba").Usable() {
		t.Error("one-word title should be usable")
	}
}
