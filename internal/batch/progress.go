// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// progressDoc is the on-disk shape of the resume file.
type progressDoc struct {
	Completed []string `json:"completed"`
}

// Progress is the set of paper keys already retrieved, persisted after
// every success so an interrupted batch resumes where it stopped. The
// set only grows.
type Progress struct {
	mu        sync.Mutex
	path      string
	completed map[string]bool
}

// LoadProgress reads the resume file at path. A missing file yields an
// empty set; an unreadable or corrupt file is an error, since silently
// starting over would re-download everything.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{path: path, completed: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress file: %w", err)
	}

	var doc progressDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing progress file %s: %w", path, err)
	}
	for _, key := range doc.Completed {
		p.completed[key] = true
	}
	return p, nil
}

// Done reports whether key has already been completed.
func (p *Progress) Done(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed[key]
}

// MarkDone adds key to the set and flushes the file immediately, so a
// crash between papers loses at most the paper in flight.
func (p *Progress) MarkDone(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed[key] {
		return nil
	}
	p.completed[key] = true
	return p.flushLocked()
}

// Len returns how many keys are recorded.
func (p *Progress) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.completed)
}

// flushLocked writes the file via temp+rename so a crash mid-write never
// corrupts the resume state. Callers hold p.mu.
func (p *Progress) flushLocked() error {
	keys := make([]string, 0, len(p.completed))
	for key := range p.completed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data, err := json.MarshalIndent(progressDoc{Completed: keys}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating progress directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".paperfetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating progress temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing progress temp file: %w", err)
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming progress file: %w", err)
	}
	return nil
}
