// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements the pluggable data-source clients that the
// retriever walks in priority order: open-access indexes, preprint
// servers, publisher endpoints, an institutional gateway, and web search.
package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/paperfetch/internal/classify"
	"github.com/pdiddy/paperfetch/internal/httputil"
	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/internal/match"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// Source is the uniform capability every data source exposes. Not every
// source implements every method: an unsupported or missed lookup returns
// (nil, nil), never an error. Errors are reserved for transport failures
// and misconfiguration, and the orchestrator treats them as ordinary
// source misses anyway.
type Source interface {
	// Name identifies the source in config, logs, and attempt records.
	Name() string

	// Accepts reports whether the source is worth trying for this DOI.
	// Sources keyed to one DOI family (arXiv, bioRxiv, Frontiers, ACL)
	// return false for foreign DOIs so the orchestrator skips them
	// without a network round-trip. Sources with no DOI affinity return
	// true for any DOI including "".
	Accepts(doi string) bool

	// GetMetadata looks up bibliographic facts for an identifier.
	GetMetadata(ctx context.Context, id identify.PaperIdentifier) (*types.Metadata, error)

	// Search returns candidate records for a free-text or title query,
	// most relevant first.
	Search(ctx context.Context, query string, limit int) ([]types.Metadata, error)

	// DownloadByDOI attempts a direct PDF retrieval for a DOI.
	DownloadByDOI(ctx context.Context, doi, destPath string) (*types.DownloadOutcome, error)

	// DownloadByTitle attempts retrieval starting from a title search.
	DownloadByTitle(ctx context.Context, title, destPath string) (*types.DownloadOutcome, error)
}

// unsupported provides no-op defaults for optional capabilities; clients
// embed it and override what they actually implement.
type unsupported struct{}

func (unsupported) GetMetadata(context.Context, identify.PaperIdentifier) (*types.Metadata, error) {
	return nil, nil
}

func (unsupported) Search(context.Context, string, int) ([]types.Metadata, error) {
	return nil, nil
}

func (unsupported) DownloadByDOI(context.Context, string, string) (*types.DownloadOutcome, error) {
	return nil, nil
}

func (unsupported) DownloadByTitle(context.Context, string, string) (*types.DownloadOutcome, error) {
	return nil, nil
}

// clientBase carries the HTTP plumbing shared by all clients.
type clientBase struct {
	client *http.Client
	http   types.HTTPConfig
}

// getJSON issues a GET with the standard headers and retry policy.
// A nil response with nil error means HTTP 404: ordinary absence.
func (b clientBase) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.http.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return resp, nil
}

// ScreenCandidate validates a record found by title search before its DOI
// or PDF URL may be used: the title must actually match, the DOI must not
// classify as review/chapter/dataset, and the candidate's title+abstract
// must not point at an unrelated common-noun sense of the query.
func ScreenCandidate(wantTitle string, cand *types.Metadata, threshold float64) (bool, string) {
	if cand.Title == "" {
		return false, "candidate has no title"
	}
	if !match.Titles(wantTitle, cand.Title, threshold) {
		return false, fmt.Sprintf("title mismatch: %q", cand.Title)
	}
	if match.TitleContextMismatch(wantTitle, cand.Title, cand.Abstract) {
		return false, fmt.Sprintf("off-domain context for %q", cand.Title)
	}
	if cand.DOI != "" {
		if bad, reason := classify.IsProblematic(cand.DOI); bad {
			return false, reason
		}
	}
	return true, ""
}
