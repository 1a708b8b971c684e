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

// Europe PMC endpoints. Vars so tests can substitute httptest servers.
var (
	europePMCAPIBase = "https://www.ebi.ac.uk/europepmc/webservices/rest"
	europePMCPDFBase = "https://europepmc.org/articles"
)

// EuropePMC covers life-science literature; full-text PDFs exist for
// records carrying a PMCID.
type EuropePMC struct {
	unsupported
	clientBase
}

// NewEuropePMC creates the Europe PMC client.
func NewEuropePMC(client *http.Client, cfg types.HTTPConfig) *EuropePMC {
	return &EuropePMC{clientBase: clientBase{client: client, http: cfg}}
}

func (e *EuropePMC) Name() string { return "europepmc" }

func (e *EuropePMC) Accepts(string) bool { return true }

func (e *EuropePMC) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	var query string
	switch {
	case id.DOI != "":
		query = fmt.Sprintf(`DOI:"%s"`, id.DOI)
	case id.Kind == identify.KindPMC:
		query = fmt.Sprintf(`PMCID:"%s"`, id.Value)
	case id.Kind == identify.KindPubMed:
		query = fmt.Sprintf(`EXT_ID:"%s"`, id.Value)
	default:
		return nil, nil
	}

	hits, err := e.search(ctx, query, 1)
	if err != nil || len(hits) == 0 {
		return nil, err
	}
	return &hits[0], nil
}

func (e *EuropePMC) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	return e.search(ctx, fmt.Sprintf(`TITLE:"%s"`, query), limit)
}

func (e *EuropePMC) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	m, err := e.GetMetadata(ctx, identify.Parse(doi))
	if err != nil || m == nil || m.PMCID == "" {
		return nil, err
	}
	return e.fetchPDF(ctx, fmt.Sprintf("%s/%s?pdf=render", europePMCPDFBase, m.PMCID), destPath)
}

func (e *EuropePMC) search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"query":    {query},
		"format":   {"json"},
		"pageSize": {fmt.Sprintf("%d", limit)},
	}

	resp, err := e.get(ctx, europePMCAPIBase+"/search?"+params.Encode(), "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Europe PMC response: %w", err)
	}

	results := make([]types.Metadata, 0, len(sr.ResultList.Result))
	for _, r := range sr.ResultList.Result {
		m := types.Metadata{
			Title:         r.Title,
			Year:          r.PubYear,
			Venue:         r.JournalTitle,
			DOI:           r.DOI,
			PMID:          r.PMID,
			PMCID:         r.PMCID,
			CitationCount: r.CitedByCount,
			IsOpenAccess:  r.IsOpenAccess == "Y",
		}
		if r.AuthorString != "" {
			m.Authors = splitAuthorString(r.AuthorString)
		}
		results = append(results, m)
	}
	return results, nil
}

// splitAuthorString breaks Europe PMC's "A, B, C." author blob into
// individual names.
func splitAuthorString(s string) []types.Author {
	var authors []types.Author
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSuffix(strings.TrimSpace(part), ".")
		if name != "" {
			authors = append(authors, types.Author{Name: name})
		}
	}
	return authors
}

// Europe PMC API JSON structures.
type europePMCResponse struct {
	ResultList struct {
		Result []europePMCResult `json:"result"`
	} `json:"resultList"`
}

type europePMCResult struct {
	Title         string `json:"title"`
	AuthorString  string `json:"authorString"`
	JournalTitle  string `json:"journalTitle"`
	PubYear       int    `json:"pubYear,string"`
	DOI           string `json:"doi"`
	PMID          string `json:"pmid"`
	PMCID         string `json:"pmcid"`
	CitedByCount  int    `json:"citedByCount"`
	IsOpenAccess  string `json:"isOpenAccess"`
}
