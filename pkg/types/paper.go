// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RetrievalStatus is the terminal state of a retrieval attempt.
type RetrievalStatus string

const (
	// StatusSuccess means a validated PDF is on disk at PDFPath.
	StatusSuccess RetrievalStatus = "success"

	// StatusNotFound means every enabled source was tried without success.
	StatusNotFound RetrievalStatus = "not_found"

	// StatusSkipped means the paper was not attempted: either the output
	// file already existed, the identifier was already in the batch
	// progress set, or the DOI classification hard-rejected it.
	StatusSkipped RetrievalStatus = "skipped"

	// StatusError means no usable identifier was supplied.
	StatusError RetrievalStatus = "error"
)

// Author is one entry in a paper's author list.
type Author struct {
	// Name is the display name ("Ashish Vaswani").
	Name string `json:"name" yaml:"name"`

	// Family and Given are set when the source splits the name.
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
	Given  string `json:"given,omitempty" yaml:"given,omitempty"`

	// Affiliation is the author's institution when known.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Metadata holds the bibliographic facts resolved for a paper. It is built
// incrementally: resolution phases only fill empty fields, never overwrite
// a populated one.
type Metadata struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Venue   string   `json:"venue,omitempty" yaml:"venue,omitempty"`

	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PMID    string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	PMCID   string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// PDFURL is a candidate direct download URL discovered during resolution.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	CitationCount  int  `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	ReferenceCount int  `json:"reference_count,omitempty" yaml:"reference_count,omitempty"`
	IsOpenAccess   bool `json:"is_open_access,omitempty" yaml:"is_open_access,omitempty"`
}

// FirstAuthor returns the family or display name of the first author, or "".
func (m *Metadata) FirstAuthor() string {
	if m == nil || len(m.Authors) == 0 {
		return ""
	}
	a := m.Authors[0]
	if a.Family != "" {
		return a.Family
	}
	return a.Name
}

// Complete reports whether the record carries enough facts (title, authors,
// year) that further resolution phases can be skipped.
func (m *Metadata) Complete() bool {
	return m != nil && m.Title != "" && len(m.Authors) > 0 && m.Year > 0
}

// FillFrom copies populated fields of src into empty fields of m. Fields
// already set in m win, so an earlier, more authoritative phase is never
// overwritten by a later one.
func (m *Metadata) FillFrom(src *Metadata) {
	if src == nil {
		return
	}
	if m.Title == "" {
		m.Title = src.Title
	}
	if len(m.Authors) == 0 {
		m.Authors = src.Authors
	}
	if m.Year == 0 {
		m.Year = src.Year
	}
	if m.Venue == "" {
		m.Venue = src.Venue
	}
	if m.DOI == "" {
		m.DOI = src.DOI
	}
	if m.ArxivID == "" {
		m.ArxivID = src.ArxivID
	}
	if m.PMID == "" {
		m.PMID = src.PMID
	}
	if m.PMCID == "" {
		m.PMCID = src.PMCID
	}
	if m.PDFURL == "" {
		m.PDFURL = src.PDFURL
	}
	if m.Abstract == "" {
		m.Abstract = src.Abstract
	}
	if m.CitationCount == 0 {
		m.CitationCount = src.CitationCount
	}
	if m.ReferenceCount == 0 {
		m.ReferenceCount = src.ReferenceCount
	}
	if src.IsOpenAccess {
		m.IsOpenAccess = true
	}
}

// AttemptRecord describes one source attempt within a retrieval.
type AttemptRecord struct {
	// Source is the source name ("arxiv", "crossref", ...).
	Source string `json:"source" yaml:"source"`

	// OK reports whether this attempt produced the PDF.
	OK bool `json:"ok" yaml:"ok"`

	// Reason is a human-readable explanation ("downloaded", "no open-access
	// copy", "title mismatch", "HTTP 503", ...).
	Reason string `json:"reason" yaml:"reason"`
}

// DownloadOutcome describes a successful PDF download.
type DownloadOutcome struct {
	// Path is where the validated PDF was written.
	Path string `json:"path" yaml:"path"`

	// Size is the downloaded size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// RetrievalResult is the outcome record for one paper. It is immutable
// after construction.
type RetrievalResult struct {
	// Key is the progress/catalog key for the paper (DOI when known,
	// otherwise arXiv ID, otherwise the normalized input).
	Key string `json:"key" yaml:"key"`

	// Input is the raw identifier string the caller supplied.
	Input string `json:"input" yaml:"input"`

	Status RetrievalStatus `json:"status" yaml:"status"`

	// Source names the source that produced the PDF; empty unless Success,
	// or "cache" for a skip-existing hit.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// PDFPath is the downloaded file; empty unless Success or cached.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	// Err explains a Skipped or Error outcome.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`

	// Metadata is the resolved record at the time the result was built.
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Attempts lists per-source attempts in the order they were made.
	Attempts []AttemptRecord `json:"attempts,omitempty" yaml:"attempts,omitempty"`

	// FinishedAt is when the terminal state was reached.
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Succeeded reports whether a validated PDF is available, either freshly
// downloaded or from a cached hit.
func (r *RetrievalResult) Succeeded() bool {
	return r.Status == StatusSuccess || (r.Status == StatusSkipped && r.PDFPath != "")
}
