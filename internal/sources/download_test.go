// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// fakePDF returns a body that passes PDF validation.
func fakePDF() []byte {
	body := make([]byte, 2048)
	copy(body, "%PDF-1.5\n")
	for i := len("%PDF-1.5\n"); i < len(body); i++ {
		body[i] = 'x'
	}
	return body
}

func testClientBase() clientBase {
	return clientBase{
		client: &http.Client{},
		http:   types.HTTPConfig{UserAgent: "paperfetch-test/0"},
	}
}

func TestFetchPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.pdf":
			w.Write(fakePDF())
		case "/small.pdf":
			w.Write([]byte("%PDF tiny"))
		case "/page.html":
			w.Write(bytes.Repeat([]byte("<html>not a pdf</html>"), 100))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b := testClientBase()
	dir := t.TempDir()

	t.Run("valid pdf lands at dest", func(t *testing.T) {
		dest := filepath.Join(dir, "out", "paper.pdf")
		outcome, err := b.fetchPDF(context.Background(), srv.URL+"/good.pdf", dest)
		if err != nil {
			t.Fatalf("fetchPDF: %v", err)
		}
		if outcome == nil {
			t.Fatal("expected outcome, got nil")
		}
		if outcome.Path != dest {
			t.Errorf("Path = %q, want %q", outcome.Path, dest)
		}
		if outcome.Size != 2048 {
			t.Errorf("Size = %d, want 2048", outcome.Size)
		}
		if !ValidPDFFile(dest) {
			t.Error("destination does not validate as PDF")
		}
	})

	t.Run("undersized body rejected", func(t *testing.T) {
		dest := filepath.Join(dir, "small.pdf")
		outcome, err := b.fetchPDF(context.Background(), srv.URL+"/small.pdf", dest)
		if err != nil || outcome != nil {
			t.Fatalf("got (%v, %v), want (nil, nil)", outcome, err)
		}
		if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
			t.Error("rejected download left a file at dest")
		}
	})

	t.Run("html body rejected", func(t *testing.T) {
		dest := filepath.Join(dir, "page.pdf")
		outcome, err := b.fetchPDF(context.Background(), srv.URL+"/page.html", dest)
		if err != nil || outcome != nil {
			t.Fatalf("got (%v, %v), want (nil, nil)", outcome, err)
		}
	})

	t.Run("404 is a miss not an error", func(t *testing.T) {
		dest := filepath.Join(dir, "missing.pdf")
		outcome, err := b.fetchPDF(context.Background(), srv.URL+"/missing.pdf", dest)
		if err != nil || outcome != nil {
			t.Fatalf("got (%v, %v), want (nil, nil)", outcome, err)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		matches, _ := filepath.Glob(filepath.Join(dir, ".paperfetch-*.tmp"))
		if len(matches) != 0 {
			t.Errorf("leftover temp files: %v", matches)
		}
	})
}

func TestValidPDFFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"valid", write("ok.pdf", fakePDF()), true},
		{"too small", write("small.pdf", []byte("%PDF tiny")), false},
		{"wrong magic", write("bad.pdf", bytes.Repeat([]byte("A"), 2048)), false},
		{"missing", filepath.Join(dir, "nope.pdf"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPDFFile(tt.path); got != tt.want {
				t.Errorf("ValidPDFFile(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
