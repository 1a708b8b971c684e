// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// pdfHrefRe pulls candidate PDF links out of a search results page.
var pdfHrefRe = regexp.MustCompile(`href="(https?://[^"]+\.pdf[^"]*)"`)

// maxSearchCandidates bounds how many scraped links we try per query.
const maxSearchCandidates = 5

// WebSearch scrapes a configured search endpoint for direct PDF links.
// It is a last-resort source and only supports title queries.
type WebSearch struct {
	unsupported
	clientBase
	baseURL string
}

// NewWebSearch creates the client. baseURL is the HTML search endpoint;
// the title query is appended as ?q=.
func NewWebSearch(client *http.Client, cfg types.HTTPConfig, baseURL string) *WebSearch {
	return &WebSearch{clientBase: clientBase{client: client, http: cfg}, baseURL: baseURL}
}

func (w *WebSearch) Name() string { return "websearch" }

func (w *WebSearch) Accepts(string) bool { return true }

func (w *WebSearch) DownloadByTitle(ctx context.Context, title, destPath string) (*types.DownloadOutcome, error) {
	if w.baseURL == "" || title == "" {
		return nil, nil
	}

	query := fmt.Sprintf(`"%s" filetype:pdf`, title)
	resp, err := w.get(ctx, w.baseURL+"?q="+url.QueryEscape(query), "text/html")
	if err != nil || resp == nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading search results: %w", err)
	}

	for i, m := range pdfHrefRe.FindAllStringSubmatch(string(body), -1) {
		if i >= maxSearchCandidates {
			break
		}
		link := strings.ReplaceAll(m[1], "&amp;", "&")
		outcome, err := w.fetchPDF(ctx, link, destPath)
		if err == nil && outcome != nil {
			return outcome, nil
		}
	}
	return nil, nil
}
