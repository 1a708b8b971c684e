// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// frontiersPDFBase is the Frontiers article PDF endpoint. Var so tests
// can substitute an httptest server.
var frontiersPDFBase = "https://www.frontiersin.org/articles"

// Frontiers serves its own open-access journals; every article DOI under
// the 10.3389 prefix maps directly to a PDF URL.
type Frontiers struct {
	unsupported
	clientBase
}

// NewFrontiers creates the Frontiers client.
func NewFrontiers(client *http.Client, cfg types.HTTPConfig) *Frontiers {
	return &Frontiers{clientBase: clientBase{client: client, http: cfg}}
}

func (f *Frontiers) Name() string { return "frontiers" }

func (f *Frontiers) Accepts(doi string) bool {
	return strings.HasPrefix(doi, "10.3389/")
}

func (f *Frontiers) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	if !f.Accepts(doi) {
		return nil, nil
	}
	return f.fetchPDF(ctx, frontiersPDFBase+"/"+doi+"/pdf", destPath)
}
