// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a parsed identifier into the fullest metadata
// record the indexes can provide before any download is attempted.
package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/internal/ratelimit"
	"github.com/pdiddy/paperfetch/internal/sources"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// titleMatchThreshold guards title-search results; resolution demands a
// stricter match than the default download screen.
const titleMatchThreshold = 0.8

// lookupLimit bounds candidates per title search.
const lookupLimit = 5

// sourcePool is the slice of the registry the resolver needs.
type sourcePool interface {
	Lookup(name string) sources.Source
}

// Resolver gathers metadata in fixed phases: title search when the input
// is a title, then DOI lookups, then arXiv-ID lookups, then a last-chance
// arXiv title search. Later phases only fill fields earlier phases left
// empty. Resolution is best-effort and never fails a retrieval: every
// lookup error is logged and swallowed.
type Resolver struct {
	pool    sourcePool
	limiter *ratelimit.Limiter
	out     io.Writer
}

// New creates a Resolver. out receives one line per failed lookup and may
// be io.Discard.
func New(pool sourcePool, limiter *ratelimit.Limiter, out io.Writer) *Resolver {
	if out == nil {
		out = io.Discard
	}
	return &Resolver{pool: pool, limiter: limiter, out: out}
}

// Resolve returns the merged metadata for id. The result always carries
// whatever the identifier itself contained (DOI, arXiv ID, PDF URL) even
// when every lookup misses.
func (r *Resolver) Resolve(ctx context.Context, id identify.PaperIdentifier) *types.Metadata {
	meta := &types.Metadata{
		DOI:     id.DOI,
		ArxivID: id.ArxivID,
		PDFURL:  id.PDFURL,
	}

	if id.Kind == identify.KindTitle {
		r.resolveTitle(ctx, id.Value, meta)
	}
	if meta.DOI != "" && !meta.Complete() {
		r.resolveDOI(ctx, meta)
	}
	if meta.ArxivID != "" && !meta.Complete() {
		r.resolveArxivID(ctx, meta)
	}
	if id.Kind == identify.KindTitle && meta.DOI == "" && meta.ArxivID == "" {
		r.arxivTitleFallback(ctx, id.Value, meta)
	}

	if meta.Title == "" && id.Kind == identify.KindTitle {
		meta.Title = id.Value
	}
	return meta
}

// resolveTitle searches Semantic Scholar then Crossref and adopts the
// first candidate whose title survives screening.
func (r *Resolver) resolveTitle(ctx context.Context, title string, meta *types.Metadata) {
	for _, name := range []string{"semanticscholar", "crossref"} {
		if r.adoptSearchHit(ctx, name, title, meta) {
			return
		}
	}
}

// adoptSearchHit runs one source's title search and merges the first
// screened candidate into meta. Returns true when a candidate was taken.
func (r *Resolver) adoptSearchHit(ctx context.Context, sourceName, title string, meta *types.Metadata) bool {
	src := r.pool.Lookup(sourceName)
	if src == nil {
		return false
	}
	if err := r.wait(ctx, sourceName); err != nil {
		return false
	}

	candidates, err := src.Search(ctx, title, lookupLimit)
	if err != nil {
		fmt.Fprintf(r.out, "  resolve: %s search failed: %v\n", sourceName, err)
		return false
	}
	for i := range candidates {
		if ok, reason := sources.ScreenCandidate(title, &candidates[i], titleMatchThreshold); !ok {
			fmt.Fprintf(r.out, "  resolve: %s candidate rejected: %s\n", sourceName, reason)
			continue
		}
		meta.FillFrom(&candidates[i])
		return true
	}
	return false
}

// resolveDOI fills gaps from the DOI-keyed indexes in a fixed order.
func (r *Resolver) resolveDOI(ctx context.Context, meta *types.Metadata) {
	id := identify.Parse(meta.DOI)
	for _, name := range []string{"crossref", "semanticscholar", "openalex"} {
		if meta.Complete() && meta.PDFURL != "" {
			return
		}
		r.fillFromLookup(ctx, name, id, meta)
	}
}

// resolveArxivID fills gaps for arXiv-identified papers: Semantic Scholar
// first for citation context, then the arXiv API itself.
func (r *Resolver) resolveArxivID(ctx context.Context, meta *types.Metadata) {
	id := identify.Parse("arXiv:" + meta.ArxivID)
	for _, name := range []string{"semanticscholar", "arxiv"} {
		if meta.Complete() {
			return
		}
		r.fillFromLookup(ctx, name, id, meta)
	}
}

func (r *Resolver) fillFromLookup(ctx context.Context, sourceName string, id identify.PaperIdentifier, meta *types.Metadata) {
	src := r.pool.Lookup(sourceName)
	if src == nil {
		return
	}
	if err := r.wait(ctx, sourceName); err != nil {
		return
	}

	found, err := src.GetMetadata(ctx, id)
	if err != nil {
		fmt.Fprintf(r.out, "  resolve: %s lookup failed: %v\n", sourceName, err)
		return
	}
	if found != nil {
		meta.FillFrom(found)
	}
}

// arxivTitleFallback is the last resolution phase: a quoted arXiv title
// search, only reached when no DOI or arXiv ID surfaced anywhere else.
func (r *Resolver) arxivTitleFallback(ctx context.Context, title string, meta *types.Metadata) {
	src := r.pool.Lookup("arxiv")
	if src == nil {
		return
	}
	if err := r.wait(ctx, "arxiv"); err != nil {
		return
	}

	candidates, err := src.Search(ctx, `ti:"`+title+`"`, lookupLimit)
	if err != nil {
		fmt.Fprintf(r.out, "  resolve: arxiv search failed: %v\n", err)
		return
	}
	for i := range candidates {
		if ok, _ := sources.ScreenCandidate(title, &candidates[i], titleMatchThreshold); ok {
			meta.FillFrom(&candidates[i])
			return
		}
	}
}

func (r *Resolver) wait(ctx context.Context, sourceName string) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx, sourceName)
}
