// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paperlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/paperfetch/pkg/types"
)

func TestLoggerWritesAndMirrors(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	l, err := New(dir, "Vaswani_2017_Attention", &console)
	if err != nil {
		t.Fatal(err)
	}
	l.SourceStart("arxiv", "download by ID")
	l.SourceResult("arxiv", true, "")
	if err := l.Close(types.StatusSuccess); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Vaswani_2017_Attention.log"))
	if err != nil {
		t.Fatalf("transcript missing: %v", err)
	}
	for _, want := range []string{"[arxiv] trying download by ID", "[arxiv] success"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("transcript missing %q:\n%s", want, data)
		}
	}
	if console.String() == "" {
		t.Error("console mirror empty")
	}
}

func TestLoggerMovesFailuresToBucket(t *testing.T) {
	dir := t.TempDir()

	l, err := New(dir, "lost_paper", nil)
	if err != nil {
		t.Fatal(err)
	}
	l.SourceResult("crossref", false, "no PDF link")
	if err := l.Close(types.StatusNotFound); err != nil {
		t.Fatal(err)
	}

	failedPath := filepath.Join(dir, "failed", "lost_paper.log")
	if _, err := os.Stat(failedPath); err != nil {
		t.Fatalf("transcript not in failed bucket: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "lost_paper.log")); !os.IsNotExist(err) {
		t.Error("transcript still at original path")
	}
	if l.Path() != failedPath {
		t.Errorf("Path() = %q, want %q", l.Path(), failedPath)
	}
}

func TestLoggerSkippedStaysPut(t *testing.T) {
	dir := t.TempDir()

	l, err := New(dir, "cached_paper", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(types.StatusSkipped); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "cached_paper.log")); err != nil {
		t.Errorf("skipped transcript should stay in place: %v", err)
	}
}
