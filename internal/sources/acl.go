// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// aclPDFBase is the ACL Anthology file host. Var so tests can substitute
// an httptest server.
var aclPDFBase = "https://aclanthology.org"

// ACLAnthology serves computational-linguistics papers. Anthology DOIs
// use the 10.18653 prefix with the anthology ID after "/v1/".
type ACLAnthology struct {
	unsupported
	clientBase
}

// NewACLAnthology creates the ACL Anthology client.
func NewACLAnthology(client *http.Client, cfg types.HTTPConfig) *ACLAnthology {
	return &ACLAnthology{clientBase: clientBase{client: client, http: cfg}}
}

func (a *ACLAnthology) Name() string { return "acl" }

func (a *ACLAnthology) Accepts(doi string) bool {
	return strings.HasPrefix(doi, "10.18653/")
}

func (a *ACLAnthology) DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error) {
	id := anthologyID(doi)
	if id == "" {
		return nil, nil
	}
	return a.fetchPDF(ctx, aclPDFBase+"/"+id+".pdf", destPath)
}

// anthologyID extracts the anthology ID from an ACL DOI
// ("10.18653/v1/2020.acl-main.1" -> "2020.acl-main.1").
func anthologyID(doi string) string {
	rest, ok := strings.CutPrefix(doi, "10.18653/v1/")
	if !ok {
		return ""
	}
	return rest
}
