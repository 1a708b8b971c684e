// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/internal/sources"
	"github.com/pdiddy/paperfetch/pkg/types"
)

func writeFakePDF(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 2048)
	copy(body, "%PDF-1.5\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
}

type fakeSource struct {
	name       string
	accepts    bool
	succeed    bool
	doiCalls   int
	titleCalls int
}

func (s *fakeSource) Name() string        { return s.name }
func (s *fakeSource) Accepts(string) bool { return s.accepts }

func (s *fakeSource) GetMetadata(context.Context, identify.PaperIdentifier) (*types.Metadata, error) {
	return nil, nil
}

func (s *fakeSource) Search(context.Context, string, int) ([]types.Metadata, error) {
	return nil, nil
}

func (s *fakeSource) DownloadByDOI(_ context.Context, _, destPath string) (*types.DownloadOutcome, error) {
	s.doiCalls++
	return s.maybeDeliver(destPath)
}

func (s *fakeSource) DownloadByTitle(_ context.Context, _, destPath string) (*types.DownloadOutcome, error) {
	s.titleCalls++
	return s.maybeDeliver(destPath)
}

func (s *fakeSource) maybeDeliver(destPath string) (*types.DownloadOutcome, error) {
	if !s.succeed {
		return nil, nil
	}
	body := make([]byte, 2048)
	copy(body, "%PDF-1.5\n")
	os.MkdirAll(filepath.Dir(destPath), 0o755)
	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return nil, err
	}
	return &types.DownloadOutcome{Path: destPath, Size: 2048}, nil
}

type fakeChain []sources.Source

func (c fakeChain) Ordered() []sources.Source { return c }

type fakeResolver struct {
	meta  *types.Metadata
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, id identify.PaperIdentifier) *types.Metadata {
	r.calls++
	if r.meta != nil {
		m := *r.meta
		if m.DOI == "" {
			m.DOI = id.DOI
		}
		if m.PDFURL == "" {
			m.PDFURL = id.PDFURL
		}
		return &m
	}
	return &types.Metadata{DOI: id.DOI, ArxivID: id.ArxivID, PDFURL: id.PDFURL}
}

func testMeta() *types.Metadata {
	return &types.Metadata{
		Title:   "Attention Is All You Need",
		Authors: []types.Author{{Family: "Vaswani"}},
		Year:    2017,
	}
}

func newTestRetriever(t *testing.T, chain SourceChain, resolver MetadataResolver, cfg types.RetrieverConfig) *Retriever {
	t.Helper()
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = t.TempDir()
	}
	return New(Options{
		Config:   cfg,
		Chain:    chain,
		Resolver: resolver,
		Client:   &http.Client{},
	})
}

func TestRetrieveFallsThroughChain(t *testing.T) {
	miss := &fakeSource{name: "first", accepts: true}
	hit := &fakeSource{name: "second", accepts: true, succeed: true}
	resolver := &fakeResolver{meta: testMeta()}
	r := newTestRetriever(t, fakeChain{miss, hit}, resolver, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), "10.1000/example.1")

	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %s (%s), want success", result.Status, result.Err)
	}
	if result.Source != "second" {
		t.Errorf("Source = %q, want second", result.Source)
	}
	if !sources.ValidPDFFile(result.PDFPath) {
		t.Errorf("PDFPath %q does not hold a valid PDF", result.PDFPath)
	}
	if miss.doiCalls != 1 {
		t.Errorf("first source DOI calls = %d, want 1", miss.doiCalls)
	}
	// Miss by DOI, miss by title, then the hit.
	if len(result.Attempts) != 3 {
		t.Errorf("attempts = %v, want 3 records", result.Attempts)
	}
	if !result.Attempts[len(result.Attempts)-1].OK {
		t.Error("final attempt should be the success")
	}

	sidecar := sidecarPath(result.PDFPath)
	if _, err := os.Stat(sidecar); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}
}

func TestRetrieveRejectsProblematicDOIBeforeResolution(t *testing.T) {
	resolver := &fakeResolver{}
	src := &fakeSource{name: "any", accepts: true, succeed: true}
	r := newTestRetriever(t, fakeChain{src}, resolver, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), "10.5281/zenodo.1234567")

	if result.Status != types.StatusSkipped {
		t.Fatalf("Status = %s, want skipped", result.Status)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times before rejection, want 0", resolver.calls)
	}
	if src.doiCalls != 0 || src.titleCalls != 0 {
		t.Error("sources contacted for a rejected DOI")
	}
	if result.Err == "" {
		t.Error("rejection reason missing")
	}
}

func TestRetrieveSkipsNonAcceptingSources(t *testing.T) {
	picky := &fakeSource{name: "picky", accepts: false}
	open := &fakeSource{name: "open", accepts: true, succeed: true}
	resolver := &fakeResolver{meta: testMeta()}
	r := newTestRetriever(t, fakeChain{picky, open}, resolver, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), "10.1000/example.1")

	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}
	if picky.doiCalls != 0 || picky.titleCalls != 0 {
		t.Error("non-accepting source was contacted")
	}
}

func TestRetrieveCachedHit(t *testing.T) {
	dir := t.TempDir()
	resolver := &fakeResolver{meta: testMeta()}
	src := &fakeSource{name: "any", accepts: true, succeed: true}
	r := newTestRetriever(t, fakeChain{src}, resolver, types.RetrieverConfig{
		Output:       types.OutputConfig{Dir: dir},
		SkipExisting: true,
	})

	writeFakePDF(t, filepath.Join(dir, "Vaswani_2017_Attention_Is_All_You_Need.pdf"))

	result := r.Retrieve(context.Background(), "10.1000/example.1")

	if result.Status != types.StatusSkipped {
		t.Fatalf("Status = %s, want skipped", result.Status)
	}
	if result.Source != "cache" {
		t.Errorf("Source = %q, want cache", result.Source)
	}
	if result.PDFPath == "" {
		t.Error("cached hit should carry the existing path")
	}
	if src.doiCalls != 0 || src.titleCalls != 0 {
		t.Error("sources contacted despite cached hit")
	}
}

func TestRetrieveDirectURL(t *testing.T) {
	body := make([]byte, 2048)
	copy(body, "%PDF-1.5\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	src := &fakeSource{name: "unused", accepts: true}
	r := newTestRetriever(t, fakeChain{src}, &fakeResolver{}, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), srv.URL+"/paper.pdf")

	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %s (%s), want success", result.Status, result.Err)
	}
	if result.Source != "direct" {
		t.Errorf("Source = %q, want direct", result.Source)
	}
	if src.doiCalls != 0 || src.titleCalls != 0 {
		t.Error("chain consulted when the direct URL worked")
	}
}

func TestRetrieveNotFound(t *testing.T) {
	miss := &fakeSource{name: "only", accepts: true}
	r := newTestRetriever(t, fakeChain{miss}, &fakeResolver{meta: testMeta()}, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), "10.1000/example.1")

	if result.Status != types.StatusNotFound {
		t.Fatalf("Status = %s, want not_found", result.Status)
	}
	if result.PDFPath != "" {
		t.Error("not_found must not carry a PDF path")
	}
}

func TestRetrieveUnusableInput(t *testing.T) {
	r := newTestRetriever(t, fakeChain{}, &fakeResolver{}, types.RetrieverConfig{})

	result := r.Retrieve(context.Background(), "   ")

	if result.Status != types.StatusError {
		t.Fatalf("Status = %s, want error", result.Status)
	}
}
