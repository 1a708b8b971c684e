// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paperfetch/internal/identify"
)

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All You Need</title>
    <summary>The dominant sequence transduction models are based on complex
    recurrent or convolutional neural networks.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestArxivAccepts(t *testing.T) {
	a := NewArxiv(&http.Client{}, testClientBase().http)

	tests := []struct {
		doi  string
		want bool
	}{
		{"", true},
		{"10.48550/arXiv.1706.03762", true},
		{"10.48550/ARXIV.2301.07041", true},
		{"10.1016/j.cell.2023.01.001", false},
		{"10.1101/2024.01.01.573999", false},
	}
	for _, tt := range tests {
		if got := a.Accepts(tt.doi); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestArxivGetMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_list") != "1706.03762" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, arxivFeedFixture)
	}))
	defer srv.Close()

	orig := arxivAPIBase
	arxivAPIBase = srv.URL
	defer func() { arxivAPIBase = orig }()

	a := NewArxiv(&http.Client{}, testClientBase().http)
	m, err := a.GetMetadata(context.Background(), identify.Parse("arXiv:1706.03762"))
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if m == nil {
		t.Fatal("expected metadata, got nil")
	}
	if m.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.ArxivID != "1706.03762" {
		t.Errorf("ArxivID = %q, want 1706.03762", m.ArxivID)
	}
	if m.Year != 2017 {
		t.Errorf("Year = %d, want 2017", m.Year)
	}
	if len(m.Authors) != 2 || m.Authors[0].Name != "Ashish Vaswani" {
		t.Errorf("Authors = %v", m.Authors)
	}
}

func TestArxivDownloadByDOI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1706.03762" {
			http.NotFound(w, r)
			return
		}
		w.Write(fakePDF())
	}))
	defer srv.Close()

	orig := arxivPDFBase
	arxivPDFBase = srv.URL + "/"
	defer func() { arxivPDFBase = orig }()

	a := NewArxiv(&http.Client{}, testClientBase().http)
	dest := filepath.Join(t.TempDir(), "attention.pdf")

	outcome, err := a.DownloadByDOI(context.Background(), "10.48550/arXiv.1706.03762", dest)
	if err != nil {
		t.Fatalf("DownloadByDOI: %v", err)
	}
	if outcome == nil {
		t.Fatal("expected outcome, got nil")
	}
	if !ValidPDFFile(dest) {
		t.Error("downloaded file does not validate")
	}

	// Foreign DOI skipped without touching the network.
	outcome, err = a.DownloadByDOI(context.Background(), "10.1016/j.cell.2023.01.001", dest)
	if err != nil || outcome != nil {
		t.Errorf("foreign DOI: got (%v, %v), want (nil, nil)", outcome, err)
	}
}

func TestArxivIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/1706.03762v7", "1706.03762"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/cs/0112017v1", "cs/0112017"},
		{"http://example.org/no-abs", ""},
	}
	for _, tt := range tests {
		if got := arxivIDFromURL(tt.in); got != tt.want {
			t.Errorf("arxivIDFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
