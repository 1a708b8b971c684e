// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/paperfetch/internal/httputil"
	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar graph API root. Var so tests
// can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticFields = "title,abstract,authors,externalIds,year,venue,publicationDate,citationCount,referenceCount,isOpenAccess,openAccessPdf"

// SemanticScholar queries the Semantic Scholar graph API for metadata,
// title search, and open-access PDF locations.
type SemanticScholar struct {
	unsupported
	clientBase
	apiKey string
}

// NewSemanticScholar creates the client. apiKey may be empty; it raises
// rate limits when set.
func NewSemanticScholar(client *http.Client, cfg types.HTTPConfig, apiKey string) *SemanticScholar {
	return &SemanticScholar{
		clientBase: clientBase{client: client, http: cfg},
		apiKey:     apiKey,
	}
}

func (s *SemanticScholar) Name() string { return "semanticscholar" }

func (s *SemanticScholar) Accepts(string) bool { return true }

// paperPath maps an identifier onto the graph API paper path.
func paperPath(id identify.PaperIdentifier) string {
	switch {
	case id.ArxivID != "":
		return "arXiv:" + id.ArxivID
	case id.DOI != "":
		return "DOI:" + id.DOI
	case id.Kind == identify.KindSemanticScholar:
		return id.Value
	case id.Kind == identify.KindPubMed:
		return "PMID:" + id.Value
	case id.Kind == identify.KindPMC:
		return "PMCID:" + id.Value
	default:
		return ""
	}
}

func (s *SemanticScholar) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	path := paperPath(id)
	if path == "" {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/paper/%s?fields=%s", semanticAPIBase, url.PathEscape(path), semanticFields)
	resp, err := s.doGet(ctx, apiURL)
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var p semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	if p.Title == "" {
		return nil, nil
	}
	m := semanticToMetadata(p)
	return &m, nil
}

func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}

	resp, err := s.doGet(ctx, semanticAPIBase+"/paper/search?"+params.Encode())
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	results := make([]types.Metadata, 0, len(sr.Data))
	for _, p := range sr.Data {
		results = append(results, semanticToMetadata(p))
	}
	return results, nil
}

// DownloadByDOI follows the openAccessPdf location when Semantic Scholar
// knows one.
func (s *SemanticScholar) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	m, err := s.GetMetadata(ctx, identify.Parse(doi))
	if err != nil || m == nil || m.PDFURL == "" {
		return nil, err
	}
	return s.fetchPDF(ctx, m.PDFURL, destPath)
}

func (s *SemanticScholar) DownloadByTitle(ctx context.Context, title, destPath string) (*types.DownloadOutcome, error) {
	candidates, err := s.Search(ctx, title, 5)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if ok, _ := ScreenCandidate(title, &candidates[i], 0.8); !ok {
			continue
		}
		if candidates[i].PDFURL == "" {
			continue
		}
		outcome, err := s.fetchPDF(ctx, candidates[i].PDFURL, destPath)
		if err != nil || outcome != nil {
			return outcome, err
		}
	}
	return nil, nil
}

// doGet is get() plus the x-api-key header.
func (s *SemanticScholar) doGet(ctx context.Context, apiURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.http.UserAgent)
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from Semantic Scholar", resp.StatusCode)
	}
	return resp, nil
}

// Semantic Scholar API JSON structures.
type semanticSearchResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Venue           string              `json:"venue"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	CitationCount   int                 `json:"citationCount"`
	ReferenceCount  int                 `json:"referenceCount"`
	IsOpenAccess    bool                `json:"isOpenAccess"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF   *semanticOAPDF      `json:"openAccessPdf"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	PubMed   string `json:"PubMed"`
	PMCID    string `json:"PubMedCentral"`
	CorpusID int    `json:"CorpusId"`
}

type semanticOAPDF struct {
	URL string `json:"url"`
}

func semanticToMetadata(p semanticPaper) types.Metadata {
	m := types.Metadata{
		Title:          p.Title,
		Abstract:       p.Abstract,
		Venue:          p.Venue,
		Year:           p.Year,
		DOI:            p.ExternalIDs.DOI,
		ArxivID:        p.ExternalIDs.ArXiv,
		PMID:           p.ExternalIDs.PubMed,
		PMCID:          p.ExternalIDs.PMCID,
		CitationCount:  p.CitationCount,
		ReferenceCount: p.ReferenceCount,
		IsOpenAccess:   p.IsOpenAccess,
	}
	for _, a := range p.Authors {
		m.Authors = append(m.Authors, types.Author{Name: a.Name})
	}
	if m.Year == 0 && p.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", p.PublicationDate); err == nil {
			m.Year = t.Year()
		}
	}
	if p.OpenAccessPDF != nil {
		m.PDFURL = p.OpenAccessPDF.URL
	}
	return m
}
