// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paperlog writes the per-paper retrieval transcript: one log
// file per paper, mirrored to the console, with failed papers bucketed
// into a failed/ subdirectory for later triage.
package paperlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// failedBucket is the subdirectory terminal failures move into.
const failedBucket = "failed"

// Logger records one paper's retrieval transcript.
type Logger struct {
	mu      sync.Mutex
	dir     string
	slug    string
	path    string
	f       *os.File
	console io.Writer
	closed  bool
}

// New opens the transcript file dir/<slug>.log, truncating any previous
// attempt. console receives a mirror of every line and may be io.Discard.
func New(dir, slug string, console io.Writer) (*Logger, error) {
	if console == nil {
		console = io.Discard
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, slug+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	return &Logger{dir: dir, slug: slug, path: path, f: f, console: console}, nil
}

// Discard returns a logger that records nothing, for callers that have
// transcripts disabled.
func Discard() *Logger {
	return &Logger{console: io.Discard, closed: true}
}

// Path returns the transcript's current location.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Printf appends one timestamped line to the transcript and the console.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	line := fmt.Sprintf("%s %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	l.f.WriteString(line)
	io.WriteString(l.console, line)
}

// SourceStart records that a source attempt is beginning.
func (l *Logger) SourceStart(source, method string) {
	l.Printf("[%s] trying %s", source, method)
}

// SourceResult records how a source attempt ended.
func (l *Logger) SourceResult(source string, ok bool, reason string) {
	if ok {
		l.Printf("[%s] success", source)
		return
	}
	l.Printf("[%s] miss: %s", source, reason)
}

// Close finalizes the transcript. Papers that ended in a terminal failure
// have their transcript moved into the failed/ bucket so the directory
// listing separates what needs attention.
func (l *Logger) Close(status types.RetrievalStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	if status != types.StatusNotFound && status != types.StatusError {
		return nil
	}

	failedDir := filepath.Join(l.dir, failedBucket)
	if err := os.MkdirAll(failedDir, 0o755); err != nil {
		return fmt.Errorf("creating failed bucket: %w", err)
	}
	newPath := filepath.Join(failedDir, l.slug+".log")
	if err := os.Rename(l.path, newPath); err != nil {
		return fmt.Errorf("moving failed transcript: %w", err)
	}
	l.path = newPath
	return nil
}
