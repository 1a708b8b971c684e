// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// Base URLs declared as vars so tests can substitute httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

var arxivDOIRe = regexp.MustCompile(`(?i)^10\.48550/arxiv\.(.+)$`)

// Arxiv serves preprints from arxiv.org: metadata via the export API,
// PDFs from the pdf endpoint.
type Arxiv struct {
	unsupported
	clientBase
}

// NewArxiv creates the arXiv client.
func NewArxiv(client *http.Client, cfg types.HTTPConfig) *Arxiv {
	return &Arxiv{clientBase: clientBase{client: client, http: cfg}}
}

func (a *Arxiv) Name() string { return "arxiv" }

// Accepts is true only for arXiv-minted DOIs; any other DOI cannot be an
// arXiv paper and the round-trip is skipped.
func (a *Arxiv) Accepts(doi string) bool {
	return doi == "" || arxivDOIRe.MatchString(doi)
}

func (a *Arxiv) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	arxivID := id.ArxivID
	if arxivID == "" {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(arxivID))
	resp, err := a.get(ctx, apiURL, "application/atom+xml")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}
	m := entryToMetadata(feed.Entries[0])
	return &m, nil
}

func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 5
	}
	apiURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(query), limit)

	resp, err := a.get(ctx, apiURL, "application/atom+xml")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	results := make([]types.Metadata, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		results = append(results, entryToMetadata(e))
	}
	return results, nil
}

func (a *Arxiv) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	m := arxivDOIRe.FindStringSubmatch(doi)
	if m == nil {
		return nil, nil
	}
	return a.downloadID(ctx, m[1], destPath)
}

func (a *Arxiv) DownloadByTitle(ctx context.Context, title, destPath string) (*types.DownloadOutcome, error) {
	candidates, err := a.Search(ctx, `ti:"`+title+`"`, 5)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if ok, _ := ScreenCandidate(title, &candidates[i], 0.8); !ok {
			continue
		}
		if candidates[i].ArxivID == "" {
			continue
		}
		return a.downloadID(ctx, candidates[i].ArxivID, destPath)
	}
	return nil, nil
}

// DownloadID fetches the PDF for a bare arXiv ID; the retriever uses it
// when the identifier itself was an arXiv ID and no DOI exists.
func (a *Arxiv) DownloadID(ctx context.Context, arxivID, destPath string) (*types.DownloadOutcome, error) {
	return a.downloadID(ctx, arxivID, destPath)
}

func (a *Arxiv) downloadID(ctx context.Context, arxivID, destPath string) (*types.DownloadOutcome, error) {
	return a.fetchPDF(ctx, arxivPDFBase+arxivID, destPath)
}

// arXiv Atom feed structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	DOI       string        `xml:"doi"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

func entryToMetadata(e arxivEntry) types.Metadata {
	m := types.Metadata{
		Title:        strings.TrimSpace(e.Title),
		Abstract:     strings.TrimSpace(e.Summary),
		ArxivID:      arxivIDFromURL(e.ID),
		DOI:          strings.TrimSpace(e.DOI),
		IsOpenAccess: true,
	}
	for _, a := range e.Authors {
		m.Authors = append(m.Authors, types.Author{Name: strings.TrimSpace(a.Name)})
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		m.Year = t.Year()
	}
	if m.ArxivID != "" {
		m.PDFURL = arxivPDFBase + m.ArxivID
	}
	return m
}

// arxivIDFromURL pulls the ID out of an entry's <id> URL, stripping any
// version suffix ("http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func arxivIDFromURL(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
