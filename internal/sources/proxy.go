// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// Proxy fetches PDFs through an institutional access gateway. The
// gateway URL comes from configuration and the source stays disabled
// when none is set.
type Proxy struct {
	unsupported
	clientBase
	baseURL string
}

// NewProxy creates the gateway client. baseURL is the gateway root, e.g.
// "https://proxy.example.edu/fetch".
func NewProxy(client *http.Client, cfg types.HTTPConfig, baseURL string) *Proxy {
	return &Proxy{clientBase: clientBase{client: client, http: cfg}, baseURL: baseURL}
}

func (p *Proxy) Name() string { return "proxy" }

func (p *Proxy) Accepts(doi string) bool { return doi != "" }

func (p *Proxy) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	if p.baseURL == "" {
		return nil, nil
	}
	return p.fetchPDF(ctx, p.baseURL+"?doi="+url.QueryEscape(doi), destPath)
}
