// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// bioRxiv endpoints. Vars so tests can substitute httptest servers.
var (
	biorxivAPIBase     = "https://api.biorxiv.org/details/biorxiv"
	biorxivContentBase = "https://www.biorxiv.org/content"
)

// Biorxiv serves bioRxiv preprints, all minted under the 10.1101 prefix.
type Biorxiv struct {
	unsupported
	clientBase
}

// NewBiorxiv creates the bioRxiv client.
func NewBiorxiv(client *http.Client, cfg types.HTTPConfig) *Biorxiv {
	return &Biorxiv{clientBase: clientBase{client: client, http: cfg}}
}

func (b *Biorxiv) Name() string { return "biorxiv" }

func (b *Biorxiv) Accepts(doi string) bool {
	return strings.HasPrefix(doi, "10.1101/")
}

func (b *Biorxiv) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	if !b.Accepts(doi) {
		return nil, nil
	}

	resp, err := b.get(ctx, biorxivAPIBase+"/"+doi, "application/json")
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var details struct {
		Collection []struct {
			Version string `json:"version"`
		} `json:"collection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("parsing bioRxiv response: %w", err)
	}
	if len(details.Collection) == 0 {
		return nil, nil
	}

	// Latest version is last in the collection.
	version := details.Collection[len(details.Collection)-1].Version
	pdfURL := fmt.Sprintf("%s/%sv%s.full.pdf", biorxivContentBase, doi, version)
	return b.fetchPDF(ctx, pdfURL, destPath)
}
