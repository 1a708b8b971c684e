// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve runs the retrieval state machine for a single paper:
// classify the identifier, resolve metadata, then walk the source chain
// in priority order until one yields a validated PDF.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paperfetch/internal/classify"
	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/internal/paperlog"
	"github.com/pdiddy/paperfetch/internal/ratelimit"
	"github.com/pdiddy/paperfetch/internal/sources"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// MetadataResolver is the resolution step; satisfied by resolve.Resolver.
type MetadataResolver interface {
	Resolve(ctx context.Context, id identify.PaperIdentifier) *types.Metadata
}

// SourceChain supplies the fallback chain; satisfied by sources.Registry.
type SourceChain interface {
	Ordered() []sources.Source
}

// arxivDirect is the extra capability the arXiv client has: downloading
// by bare arXiv ID when no DOI exists.
type arxivDirect interface {
	DownloadID(ctx context.Context, arxivID, destPath string) (*types.DownloadOutcome, error)
}

// Options wires a Retriever.
type Options struct {
	Config   types.RetrieverConfig
	Chain    SourceChain
	Resolver MetadataResolver
	Limiter  *ratelimit.Limiter
	Client   *http.Client

	// LogDir receives per-paper transcripts; empty disables them.
	LogDir string

	// Console mirrors transcript lines; nil means quiet.
	Console io.Writer
}

// Retriever fetches one paper at a time. It is safe for concurrent use;
// the rate limiter serializes per-source traffic across goroutines.
type Retriever struct {
	cfg      types.RetrieverConfig
	chain    SourceChain
	resolver MetadataResolver
	limiter  *ratelimit.Limiter
	client   *http.Client
	paths    *PathBuilder
	logDir   string
	console  io.Writer
}

// New creates a Retriever from opts.
func New(opts Options) *Retriever {
	console := opts.Console
	if console == nil {
		console = io.Discard
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Config.Timeout}
	}
	return &Retriever{
		cfg:      opts.Config,
		chain:    opts.Chain,
		resolver: opts.Resolver,
		limiter:  opts.Limiter,
		client:   client,
		paths:    NewPathBuilder(opts.Config.Output),
		logDir:   opts.LogDir,
		console:  console,
	}
}

// Retrieve runs the full state machine for one input identifier. The
// returned result is always non-nil and terminal; errors along the way
// are folded into attempt records rather than aborting the run.
func (r *Retriever) Retrieve(ctx context.Context, input string) *types.RetrievalResult {
	id := identify.Parse(input)
	result := &types.RetrievalResult{Key: id.Key(), Input: input}

	if !id.Usable() {
		result.Status = types.StatusError
		result.Err = "unrecognized identifier"
		result.FinishedAt = time.Now().UTC()
		return result
	}

	// Problematic DOIs are rejected before any network traffic.
	if bad, reason := classify.IsProblematic(id.DOI); bad {
		result.Status = types.StatusSkipped
		result.Err = reason
		result.FinishedAt = time.Now().UTC()
		return result
	}

	log := r.openLog(id)
	defer func() {
		result.FinishedAt = time.Now().UTC()
		log.Close(result.Status)
	}()

	log.Printf("retrieving %q (%s)", input, id.Kind)

	meta := r.resolver.Resolve(ctx, id)
	result.Metadata = meta

	// Re-check with the resolved DOI: a title input may resolve to a
	// review or dataset DOI.
	if bad, reason := classify.IsProblematic(meta.DOI); bad {
		log.Printf("rejected after resolution: %s", reason)
		result.Status = types.StatusSkipped
		result.Err = reason
		return result
	}
	if c := classify.Classify(meta.DOI); c.Warning != "" {
		log.Printf("warning: %s", c.Warning)
	}

	destPath := r.paths.Build(meta)
	log.Printf("output path: %s", destPath)

	if r.cfg.SkipExisting && sources.ValidPDFFile(destPath) {
		log.Printf("already on disk, skipping")
		result.Status = types.StatusSkipped
		result.Source = "cache"
		result.PDFPath = destPath
		return result
	}

	if r.tryDirectURLs(ctx, id, meta, destPath, result, log) {
		r.finishSuccess(result, destPath, input, meta, log)
		return result
	}

	for _, src := range r.orderedChain() {
		if meta.DOI != "" && !src.Accepts(meta.DOI) {
			continue
		}
		if ok := r.trySource(ctx, src, meta, destPath, result, log); ok {
			result.Source = src.Name()
			r.finishSuccess(result, destPath, input, meta, log)
			return result
		}
		if ctx.Err() != nil {
			result.Status = types.StatusError
			result.Err = ctx.Err().Error()
			return result
		}
	}

	log.Printf("exhausted all sources")
	result.Status = types.StatusNotFound
	result.Err = "no source produced a PDF"
	return result
}

func (r *Retriever) orderedChain() []sources.Source {
	if r.chain == nil {
		return nil
	}
	return r.chain.Ordered()
}

// tryDirectURLs attempts any PDF URL already in hand: the input itself
// when it was a URL, then one discovered during resolution.
func (r *Retriever) tryDirectURLs(ctx context.Context, id identify.PaperIdentifier, meta *types.Metadata, destPath string, result *types.RetrievalResult, log *paperlog.Logger) bool {
	var urls []string
	if id.PDFURL != "" {
		urls = append(urls, id.PDFURL)
	}
	if meta.PDFURL != "" && meta.PDFURL != id.PDFURL {
		urls = append(urls, meta.PDFURL)
	}

	for _, u := range urls {
		log.SourceStart("direct", u)
		outcome, err := sources.FetchPDF(ctx, r.client, r.cfg.HTTPConfig, u, destPath)
		ok, reason := attemptOutcome(outcome, err)
		result.Attempts = append(result.Attempts, types.AttemptRecord{Source: "direct", OK: ok, Reason: reason})
		log.SourceResult("direct", ok, reason)
		if ok {
			result.Source = "direct"
			return true
		}
	}
	return false
}

// trySource runs one source's download attempts. arXiv gets its bare-ID
// path when the paper has an arXiv ID; the mirror prefers title lookups
// over DOI lookups; everything else goes DOI first, title second.
func (r *Retriever) trySource(ctx context.Context, src sources.Source, meta *types.Metadata, destPath string, result *types.RetrievalResult, log *paperlog.Logger) bool {
	name := src.Name()

	type attempt struct {
		method string
		run    func() (*types.DownloadOutcome, error)
	}
	var attempts []attempt

	if ad, ok := src.(arxivDirect); ok && meta.ArxivID != "" {
		arxivID := meta.ArxivID
		attempts = append(attempts, attempt{"arXiv ID " + arxivID, func() (*types.DownloadOutcome, error) {
			return ad.DownloadID(ctx, arxivID, destPath)
		}})
	}

	byDOI := attempt{"DOI " + meta.DOI, func() (*types.DownloadOutcome, error) {
		return src.DownloadByDOI(ctx, meta.DOI, destPath)
	}}
	byTitle := attempt{"title search", func() (*types.DownloadOutcome, error) {
		return src.DownloadByTitle(ctx, meta.Title, destPath)
	}}

	switch {
	case name == "mirror":
		// The mirror's title lookup outperforms its DOI lookup.
		if meta.Title != "" {
			attempts = append(attempts, byTitle)
		}
		if meta.DOI != "" {
			attempts = append(attempts, byDOI)
		}
	default:
		if meta.DOI != "" {
			attempts = append(attempts, byDOI)
		}
		if meta.Title != "" {
			attempts = append(attempts, byTitle)
		}
	}

	for _, a := range attempts {
		if err := r.wait(ctx, name); err != nil {
			return false
		}
		log.SourceStart(name, a.method)
		outcome, err := a.run()
		ok, reason := attemptOutcome(outcome, err)
		result.Attempts = append(result.Attempts, types.AttemptRecord{Source: name, OK: ok, Reason: reason})
		log.SourceResult(name, ok, reason)
		if ok {
			return true
		}
	}
	return false
}

// finishSuccess runs the post-download steps: the soft DOI cross-check
// against the file's own text, the metadata sidecar, and the result.
func (r *Retriever) finishSuccess(result *types.RetrievalResult, destPath, input string, meta *types.Metadata, log *paperlog.Logger) {
	if meta.DOI != "" {
		if embedded := sources.ExtractDOI(destPath); embedded != "" && !equalDOI(embedded, meta.DOI) {
			log.Printf("warning: file contains DOI %s, expected %s", embedded, meta.DOI)
		}
	}
	if err := writeSidecar(destPath, result.Source, input, meta); err != nil {
		log.Printf("warning: sidecar not written: %v", err)
	}
	log.Printf("done: %s", destPath)
	result.Status = types.StatusSuccess
	result.PDFPath = destPath
}

func (r *Retriever) openLog(id identify.PaperIdentifier) *paperlog.Logger {
	if r.logDir == "" {
		return paperlog.Discard()
	}
	log, err := paperlog.New(r.logDir, id.Slug(), r.console)
	if err != nil {
		fmt.Fprintf(r.console, "transcript unavailable: %v\n", err)
		return paperlog.Discard()
	}
	return log
}

func (r *Retriever) wait(ctx context.Context, source string) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx, source)
}

func attemptOutcome(outcome *types.DownloadOutcome, err error) (bool, string) {
	switch {
	case err != nil:
		return false, err.Error()
	case outcome == nil:
		return false, "no PDF available"
	default:
		return true, fmt.Sprintf("downloaded %d bytes", outcome.Size)
	}
}

// equalDOI compares DOIs case-insensitively, per the DOI handbook.
func equalDOI(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
