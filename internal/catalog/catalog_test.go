// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/paperfetch/pkg/types"
)

func TestStoreRecordAndRecent(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	results := []*types.RetrievalResult{
		{
			Key:    "10.1000/a",
			Input:  "10.1000/a",
			Status: types.StatusSuccess,
			Source: "arxiv",
			PDFPath: "/papers/a.pdf",
			Metadata: &types.Metadata{Title: "Paper A", DOI: "10.1000/a"},
			Attempts: []types.AttemptRecord{{Source: "arxiv", OK: true, Reason: "downloaded"}},
			FinishedAt: base,
		},
		{
			Key:        "10.1000/b",
			Input:      "10.1000/b",
			Status:     types.StatusNotFound,
			Err:        "no source produced a PDF",
			FinishedAt: base.Add(time.Minute),
		},
	}
	for _, r := range results {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Key != "10.1000/b" {
		t.Errorf("entries[0].Key = %q, want 10.1000/b", entries[0].Key)
	}
	if entries[1].Title != "Paper A" {
		t.Errorf("entries[1].Title = %q, want Paper A", entries[1].Title)
	}
	if entries[1].Source != "arxiv" {
		t.Errorf("entries[1].Source = %q, want arxiv", entries[1].Source)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[types.StatusSuccess] != 1 || counts[types.StatusNotFound] != 1 {
		t.Errorf("Counts = %v", counts)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Record(ctx, &types.RetrievalResult{
		Key:        "10.1000/a",
		Input:      "10.1000/a",
		Status:     types.StatusSuccess,
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	entries, err := s2.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("after reopen: %d entries, want 1", len(entries))
	}
}
