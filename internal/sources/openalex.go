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

// openAlexAPIBase is the OpenAlex works endpoint. Var so tests can
// substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlex indexes open-access locations across repositories; its
// best_oa_location is often the shortest path to a legitimate PDF.
type OpenAlex struct {
	unsupported
	clientBase
	email string
}

// NewOpenAlex creates the client. A non-empty email joins the polite
// pool, which gets a larger rate allowance.
func NewOpenAlex(client *http.Client, cfg types.HTTPConfig, email string) *OpenAlex {
	return &OpenAlex{clientBase: clientBase{client: client, http: cfg}, email: email}
}

func (o *OpenAlex) Name() string { return "openalex" }

func (o *OpenAlex) Accepts(string) bool { return true }

func (o *OpenAlex) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	var path string
	switch {
	case id.DOI != "":
		path = "/https://doi.org/" + id.DOI
	case id.Kind == identify.KindOpenAlex:
		path = "/" + id.Value
	default:
		return nil, nil
	}

	resp, err := o.get(ctx, openAlexAPIBase+path+o.mailto("?"), "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var w openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	if w.Title == "" {
		return nil, nil
	}
	m := openAlexToMetadata(w)
	return &m, nil
}

func (o *OpenAlex) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"filter":   {"title.search:" + query},
		"per-page": {fmt.Sprintf("%d", limit)},
	}
	apiURL := openAlexAPIBase + "?" + params.Encode() + o.mailto("&")

	resp, err := o.get(ctx, apiURL, "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list struct {
		Results []openAlexWork `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	results := make([]types.Metadata, 0, len(list.Results))
	for _, w := range list.Results {
		results = append(results, openAlexToMetadata(w))
	}
	return results, nil
}

// DownloadByDOI fetches the best open-access location's PDF when
// OpenAlex records one.
func (o *OpenAlex) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	m, err := o.GetMetadata(ctx, identify.Parse(doi))
	if err != nil || m == nil || m.PDFURL == "" {
		return nil, err
	}
	return o.fetchPDF(ctx, m.PDFURL, destPath)
}

func (o *OpenAlex) mailto(sep string) string {
	if o.email == "" {
		return ""
	}
	return sep + "mailto=" + url.QueryEscape(o.email)
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	CitedByCount    int    `json:"cited_by_count"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
		Institutions []struct {
			DisplayName string `json:"display_name"`
		} `json:"institutions"`
	} `json:"authorships"`
	HostVenue struct {
		DisplayName string `json:"display_name"`
	} `json:"host_venue"`
	OpenAccess struct {
		IsOA bool `json:"is_oa"`
	} `json:"open_access"`
	BestOALocation *struct {
		PDFURL string `json:"pdf_url"`
	} `json:"best_oa_location"`
}

func openAlexToMetadata(w openAlexWork) types.Metadata {
	m := types.Metadata{
		Title:         w.Title,
		Year:          w.PublicationYear,
		Venue:         w.HostVenue.DisplayName,
		DOI:           strings.TrimPrefix(w.DOI, "https://doi.org/"),
		CitationCount: w.CitedByCount,
		IsOpenAccess:  w.OpenAccess.IsOA,
	}
	for _, a := range w.Authorships {
		author := types.Author{Name: a.Author.DisplayName}
		if len(a.Institutions) > 0 {
			author.Affiliation = a.Institutions[0].DisplayName
		}
		m.Authors = append(m.Authors, author)
	}
	if w.BestOALocation != nil {
		m.PDFURL = w.BestOALocation.PDFURL
	}
	return m
}
