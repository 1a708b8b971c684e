// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// unpaywallAPIBase is the Unpaywall v2 endpoint. Var so tests can
// substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2"

// Unpaywall maps DOIs to legal open-access copies. It requires a contact
// email on every request and is useless without a DOI.
type Unpaywall struct {
	unsupported
	clientBase
	email string
}

// NewUnpaywall creates the client. The source is skipped at registry
// level when email is empty, since the API rejects anonymous calls.
func NewUnpaywall(client *http.Client, cfg types.HTTPConfig, email string) *Unpaywall {
	return &Unpaywall{clientBase: clientBase{client: client, http: cfg}, email: email}
}

func (u *Unpaywall) Name() string { return "unpaywall" }

func (u *Unpaywall) Accepts(doi string) bool { return doi != "" }

func (u *Unpaywall) GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error) {
	if id.DOI == "" {
		return nil, nil
	}
	rec, err := u.lookup(ctx, id.DOI)
	if err != nil || rec == nil {
		return nil, err
	}
	m := types.Metadata{
		Title:        rec.Title,
		Year:         rec.Year,
		Venue:        rec.JournalName,
		DOI:          rec.DOI,
		IsOpenAccess: rec.IsOA,
	}
	for _, a := range rec.ZAuthors {
		m.Authors = append(m.Authors, types.Author{
			Name:   joinName(a.Given, a.Family),
			Given:  a.Given,
			Family: a.Family,
		})
	}
	if rec.BestOALocation != nil {
		m.PDFURL = rec.BestOALocation.URLForPDF
	}
	return &m, nil
}

func (u *Unpaywall) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	rec, err := u.lookup(ctx, doi)
	if err != nil || rec == nil {
		return nil, err
	}
	if rec.BestOALocation == nil || rec.BestOALocation.URLForPDF == "" {
		return nil, nil
	}
	return u.fetchPDF(ctx, rec.BestOALocation.URLForPDF, destPath)
}

func (u *Unpaywall) lookup(ctx context.Context, doi string) (*unpaywallRecord, error) {
	apiURL := fmt.Sprintf("%s/%s?email=%s", unpaywallAPIBase, url.PathEscape(doi), url.QueryEscape(u.email))

	resp, err := u.get(ctx, apiURL, "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rec unpaywallRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing Unpaywall response: %w", err)
	}
	return &rec, nil
}

func joinName(given, family string) string {
	switch {
	case given == "":
		return family
	case family == "":
		return given
	default:
		return given + " " + family
	}
}

// Unpaywall API JSON structures.
type unpaywallRecord struct {
	DOI         string `json:"doi"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	JournalName string `json:"journal_name"`
	IsOA        bool   `json:"is_oa"`
	ZAuthors    []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"z_authors"`
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
}
