// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Var so tests can
// substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref is the DOI registry: authoritative metadata for almost every
// DOI, and occasionally a publisher-hosted PDF link.
type Crossref struct {
	unsupported
	clientBase
}

// NewCrossref creates the Crossref client.
func NewCrossref(client *http.Client, cfg types.HTTPConfig) *Crossref {
	return &Crossref{clientBase: clientBase{client: client, http: cfg}}
}

func (c *Crossref) Name() string { return "crossref" }

func (c *Crossref) Accepts(string) bool { return true }

func (c *Crossref) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	if id.DOI == "" {
		return nil, nil
	}

	resp, err := c.get(ctx, crossrefAPIBase+"/"+url.PathEscape(id.DOI), "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr crossrefWorkResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	m := crossrefWorkToMetadata(cr.Message)
	return &m, nil
}

func (c *Crossref) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {fmt.Sprintf("%d", limit)},
	}

	resp, err := c.get(ctx, crossrefAPIBase+"?"+params.Encode(), "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr crossrefListResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	results := make([]types.Metadata, 0, len(cr.Message.Items))
	for _, w := range cr.Message.Items {
		results = append(results, crossrefWorkToMetadata(w))
	}
	return results, nil
}

// DownloadByDOI tries the publisher-declared full-text links Crossref
// records for a work. Most are paywalled; absence is the common case.
func (c *Crossref) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	resp, err := c.get(ctx, crossrefAPIBase+"/"+url.PathEscape(doi), "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr crossrefWorkResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	for _, link := range cr.Message.Link {
		if !strings.Contains(link.ContentType, "pdf") || link.URL == "" {
			continue
		}
		outcome, err := c.fetchPDF(ctx, link.URL, destPath)
		if err != nil || outcome != nil {
			return outcome, err
		}
	}
	return nil, nil
}

// Crossref API JSON structures.
type crossrefWorkResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefListResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI       string           `json:"DOI"`
	Title     []string         `json:"title"`
	Abstract  string           `json:"abstract"`
	Author    []crossrefAuthor `json:"author"`
	Issued    crossrefDate     `json:"issued"`
	Container []string         `json:"container-title"`
	Link      []crossrefLink   `json:"link"`
	RefCount  int              `json:"references-count"`
	CitedBy   int              `json:"is-referenced-by-count"`
}

type crossrefAuthor struct {
	Given       string `json:"given"`
	Family      string `json:"family"`
	Affiliation []struct {
		Name string `json:"name"`
	} `json:"affiliation"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

type crossrefLink struct {
	URL         string `json:"URL"`
	ContentType string `json:"content-type"`
}

func crossrefWorkToMetadata(w crossrefWork) types.Metadata {
	m := types.Metadata{
		DOI:            w.DOI,
		Abstract:       stripJATS(w.Abstract),
		ReferenceCount: w.RefCount,
		CitationCount:  w.CitedBy,
	}
	if len(w.Title) > 0 {
		m.Title = w.Title[0]
	}
	if len(w.Container) > 0 {
		m.Venue = w.Container[0]
	}
	for _, a := range w.Author {
		author := types.Author{
			Name:   strings.TrimSpace(a.Given + " " + a.Family),
			Given:  a.Given,
			Family: a.Family,
		}
		if len(a.Affiliation) > 0 {
			author.Affiliation = a.Affiliation[0].Name
		}
		m.Authors = append(m.Authors, author)
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		m.Year = w.Issued.DateParts[0][0]
	}
	for _, link := range w.Link {
		if strings.Contains(link.ContentType, "pdf") {
			m.PDFURL = link.URL
			break
		}
	}
	return m
}

// stripJATS removes the JATS XML tags Crossref embeds in abstracts.
func stripJATS(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
