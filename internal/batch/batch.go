// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch retrieves many papers through one Retriever, bounding
// concurrency and persisting progress so interrupted runs resume.
package batch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pdiddy/paperfetch/internal/identify"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// PaperRetriever fetches one paper; satisfied by retrieve.Retriever.
type PaperRetriever interface {
	Retrieve(ctx context.Context, input string) *types.RetrievalResult
}

// Coordinator runs a batch of identifiers through the retriever.
type Coordinator struct {
	retriever PaperRetriever
	cfg       types.BatchConfig
	progress  *Progress
	out       io.Writer
}

// New creates a Coordinator. progress may be nil to disable resume
// tracking; out receives one line per paper and may be io.Discard.
func New(retriever PaperRetriever, cfg types.BatchConfig, progress *Progress, out io.Writer) *Coordinator {
	if out == nil {
		out = io.Discard
	}
	return &Coordinator{retriever: retriever, cfg: cfg, progress: progress, out: out}
}

// Run retrieves every input and returns results in input order. Papers
// whose key is already in the progress set are skipped without any
// network traffic; every success is flushed to the progress file before
// the next paper completes, so interrupting the run loses at most the
// papers in flight.
func (c *Coordinator) Run(ctx context.Context, inputs []string) []*types.RetrievalResult {
	results := make([]*types.RetrievalResult, len(inputs))

	if c.cfg.MaxConcurrent <= 1 {
		for i, input := range inputs {
			if ctx.Err() != nil {
				results[i] = canceledResult(input, ctx.Err())
				continue
			}
			results[i] = c.runOne(ctx, input)
			if i < len(inputs)-1 && c.cfg.SequentialDelay > 0 && results[i].Status != types.StatusSkipped {
				sleepCtx(ctx, c.cfg.SequentialDelay)
			}
		}
		return results
	}

	sem := make(chan struct{}, c.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = canceledResult(input, ctx.Err())
				return
			}
			defer func() { <-sem }()
			results[i] = c.runOne(ctx, input)
		}(i, input)
	}
	wg.Wait()
	return results
}

// runOne handles progress bookkeeping around a single retrieval.
func (c *Coordinator) runOne(ctx context.Context, input string) *types.RetrievalResult {
	key := identify.Parse(input).Key()

	if c.progress != nil && key != "" && c.progress.Done(key) {
		fmt.Fprintf(c.out, "skip %s: completed in a previous run\n", input)
		return &types.RetrievalResult{
			Key:        key,
			Input:      input,
			Status:     types.StatusSkipped,
			Err:        "completed in a previous run",
			FinishedAt: time.Now().UTC(),
		}
	}

	result := c.retriever.Retrieve(ctx, input)

	// Success and explicit skips are completed work; not_found and error
	// stay out of the set so the next run retries them.
	completed := result.Status == types.StatusSuccess || result.Status == types.StatusSkipped
	if c.progress != nil && completed && result.Key != "" {
		if err := c.progress.MarkDone(result.Key); err != nil {
			fmt.Fprintf(c.out, "warning: progress not saved: %v\n", err)
		}
	}
	fmt.Fprintf(c.out, "%s %s\n", result.Status, input)
	return result
}

func canceledResult(input string, err error) *types.RetrievalResult {
	return &types.RetrievalResult{
		Key:        identify.Parse(input).Key(),
		Input:      input,
		Status:     types.StatusError,
		Err:        err.Error(),
		FinishedAt: time.Now().UTC(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
