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

// mirrorBaseURL is the mirror host queried when unofficial sources are
// allowed. Var so tests can substitute an httptest server.
var mirrorBaseURL = "https://sci-hub.se"

// mirrorEmbedRe finds the embedded PDF reference in a mirror page.
var mirrorEmbedRe = regexp.MustCompile(`(?:src|href)="([^"]*\.pdf[^"]*)"`)

// Mirror queries a shadow-library mirror. It is disabled by default and
// only registered when the configuration opts in to unofficial sources.
// Title lookups work better than DOI lookups on the mirror's search
// page, so DownloadByTitle is the preferred entry point.
type Mirror struct {
	unsupported
	clientBase
}

// NewMirror creates the mirror client.
func NewMirror(client *http.Client, cfg types.HTTPConfig) *Mirror {
	return &Mirror{clientBase: clientBase{client: client, http: cfg}}
}

func (m *Mirror) Name() string { return "mirror" }

func (m *Mirror) Accepts(string) bool { return true }

func (m *Mirror) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	if doi == "" {
		return nil, nil
	}
	return m.resolvePage(ctx, mirrorBaseURL+"/"+url.PathEscape(doi), destPath)
}

func (m *Mirror) DownloadByTitle(ctx context.Context, title, destPath string) (*types.DownloadOutcome, error) {
	if title == "" {
		return nil, nil
	}
	return m.resolvePage(ctx, mirrorBaseURL+"/"+url.PathEscape(title), destPath)
}

// resolvePage fetches a mirror landing page and follows the embedded PDF
// reference, if any.
func (m *Mirror) resolvePage(ctx context.Context, pageURL, destPath string) (*types.DownloadOutcome, error) {
	resp, err := m.get(ctx, pageURL, "text/html")
	if err != nil || resp == nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading mirror page: %w", err)
	}

	match := mirrorEmbedRe.FindStringSubmatch(string(body))
	if match == nil {
		return nil, nil
	}
	return m.fetchPDF(ctx, absoluteMirrorURL(match[1]), destPath)
}

// absoluteMirrorURL resolves protocol-relative and path-relative PDF
// links against the mirror host.
func absoluteMirrorURL(link string) string {
	switch {
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return mirrorBaseURL + link
	default:
		return mirrorBaseURL + "/" + link
	}
}
