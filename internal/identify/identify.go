// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identify parses raw paper identifiers into normalized descriptors.
package identify

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Kind classifies an input identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindDOI
	KindArxiv
	KindSemanticScholar
	KindOpenAlex
	KindPubMed
	KindPMC
	KindPDFURL
	KindTitle
)

func (k Kind) String() string {
	switch k {
	case KindDOI:
		return "doi"
	case KindArxiv:
		return "arxiv"
	case KindSemanticScholar:
		return "semanticscholar"
	case KindOpenAlex:
		return "openalex"
	case KindPubMed:
		return "pubmed"
	case KindPMC:
		return "pmc"
	case KindPDFURL:
		return "pdf_url"
	case KindTitle:
		return "title"
	default:
		return "unknown"
	}
}

// PaperIdentifier is the normalized request descriptor for one paper.
// It never changes kind after construction.
type PaperIdentifier struct {
	// Input is the raw string the caller supplied.
	Input string

	// Kind is the detected identifier type.
	Kind Kind

	// Value is the normalized identifier (DOI without resolver prefix,
	// arXiv ID without "arXiv:", the title text, ...).
	Value string

	// DOI is the resolved DOI when one is known, directly or derived.
	DOI string

	// ArxivID is the resolved arXiv ID when one is known.
	ArxivID string

	// PDFURL is a direct download URL when one is known.
	PDFURL string
}

// arxivNewPattern matches modern arXiv IDs: "2301.07041", "arXiv:2301.07041v2".
var arxivNewPattern = regexp.MustCompile(`^(?i:arxiv:)?(\d{4}\.\d{4,5})(v\d+)?$`)

// arxivOldPattern matches pre-2007 IDs like "hep-th/9901001".
var arxivOldPattern = regexp.MustCompile(`^(?i:arxiv:)?([a-z-]+(?:\.[A-Z]{2})?/\d{7})(v\d+)?$`)

// arxivDOIPattern extracts the arXiv ID embedded in DataCite arXiv DOIs
// such as "10.48550/arXiv.1706.03762".
var arxivDOIPattern = regexp.MustCompile(`^10\.48550/arxiv\.(.+)$`)

// arxivURLPattern extracts the ID from arxiv.org abs/pdf URLs.
var arxivURLPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}|[a-z-]+/\d{7})(v\d+)?`)

var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

var pmcPattern = regexp.MustCompile(`^(?i:pmc)(\d+)$`)

var pmidPattern = regexp.MustCompile(`^(?i:pmid:)?(\d{1,8})$`)

var openAlexPattern = regexp.MustCompile(`^(?i)(w\d{4,12})$`)

// s2Pattern matches 40-hex Semantic Scholar paper hashes.
var s2Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Parse builds a PaperIdentifier from a raw input string. An input that
// matches no identifier shape but contains a letter is treated as a
// title; anything else is KindUnknown.
func Parse(input string) PaperIdentifier {
	trimmed := strings.TrimSpace(input)
	id := PaperIdentifier{Input: input, Kind: KindUnknown, Value: trimmed}
	if trimmed == "" {
		return id
	}

	if m := arxivNewPattern.FindStringSubmatch(trimmed); m != nil {
		id.Kind = KindArxiv
		id.Value = m[1]
		id.ArxivID = m[1]
		return id
	}
	if m := arxivOldPattern.FindStringSubmatch(trimmed); m != nil {
		id.Kind = KindArxiv
		id.Value = m[1]
		id.ArxivID = m[1]
		return id
	}

	// DOI, including doi.org URLs. arXiv-minted DOIs also yield the
	// embedded arXiv ID so arXiv-keyed sources apply.
	doi := trimmed
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		if rest, ok := strings.CutPrefix(doi, prefix); ok {
			doi = rest
			break
		}
	}
	if doiPattern.MatchString(doi) {
		id.Kind = KindDOI
		id.Value = doi
		id.DOI = doi
		if m := arxivDOIPattern.FindStringSubmatch(strings.ToLower(doi)); m != nil {
			id.ArxivID = m[1]
		}
		return id
	}

	if m := pmcPattern.FindStringSubmatch(trimmed); m != nil {
		id.Kind = KindPMC
		id.Value = "PMC" + m[1]
		return id
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "pmid:") {
		if m := pmidPattern.FindStringSubmatch(trimmed); m != nil {
			id.Kind = KindPubMed
			id.Value = m[1]
			return id
		}
	}
	if m := openAlexPattern.FindStringSubmatch(trimmed); m != nil {
		id.Kind = KindOpenAlex
		id.Value = strings.ToUpper(m[1])
		return id
	}
	if s2Pattern.MatchString(strings.ToLower(trimmed)) {
		id.Kind = KindSemanticScholar
		id.Value = strings.ToLower(trimmed)
		return id
	}

	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if m := arxivURLPattern.FindStringSubmatch(trimmed); m != nil {
			id.Kind = KindArxiv
			id.Value = m[1]
			id.ArxivID = m[1]
			return id
		}
		id.Kind = KindPDFURL
		id.Value = trimmed
		id.PDFURL = trimmed
		return id
	}

	// Bare digit runs without a pmid: prefix are ambiguous; anything
	// with a letter falls through to a title search, one-word titles
	// included.
	if strings.ContainsFunc(trimmed, unicode.IsLetter) {
		id.Kind = KindTitle
		id.Value = trimmed
		return id
	}

	return id
}

// Key returns the canonical progress/catalog key for the identifier: the
// DOI when known, else the arXiv ID, else the normalized value.
func (id PaperIdentifier) Key() string {
	if id.DOI != "" {
		return id.DOI
	}
	if id.ArxivID != "" {
		return id.ArxivID
	}
	return id.Value
}

var slugReplacer = strings.NewReplacer(
	"/", "-", ":", "-", "\\", "-", "?", "-", "*", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-", " ", "_",
)

// Slug returns a filesystem-safe stem for log and sidecar filenames.
func (id PaperIdentifier) Slug() string {
	s := slugReplacer.Replace(id.Key())
	if len(s) > 120 {
		s = s[:120]
	}
	s = strings.Trim(s, "-_.")
	if s == "" {
		return "paper"
	}
	return s
}

// Usable reports whether the identifier can drive a retrieval at all.
func (id PaperIdentifier) Usable() bool {
	return id.Kind != KindUnknown
}
