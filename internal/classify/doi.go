// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify derives a work type and paywall hint from DOI prefix
// patterns, so unsuitable hits are rejected before any network attempt.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// WorkType is the classified kind of a DOI-identified work.
type WorkType string

const (
	TypePaper       WorkType = "paper"
	TypeReview      WorkType = "review"
	TypeBookChapter WorkType = "book_chapter"
	TypeDataset     WorkType = "dataset"
	TypeUnknown     WorkType = "unknown"
)

// Classification is the stateless result of classifying one DOI. It is
// recomputed on demand and never persisted.
type Classification struct {
	Type        WorkType
	Publisher   string
	IsPaywalled bool
	Warning     string
}

// reviewPatterns match DOIs minted for peer-review content rather than
// papers: ScienceOpen review DOIs carry a "sor-" token, Faculty Opinions
// review DOIs use the 10.3410/f. shape.
var reviewPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^10\.14293/.*\bsor-`),
	regexp.MustCompile(`^10\.3410/f\.`),
}

// isbnToken matches an embedded ISBN-like token (978/979 prefix), the
// telltale of a book-chapter DOI.
var isbnToken = regexp.MustCompile(`97[89][-_.]?\d`)

// paywalledPublishers maps DOI registrant prefixes to publishers that keep
// most content behind a subscription. A hit is a hint, not a rejection:
// other sources may still hold an open-access copy.
var paywalledPublishers = map[string]string{
	"10.1016": "Elsevier",
	"10.1007": "Springer",
	"10.1002": "Wiley",
	"10.1021": "American Chemical Society",
	"10.1080": "Taylor & Francis",
	"10.1093": "Oxford University Press",
	"10.1097": "Wolters Kluwer",
	"10.1109": "IEEE",
	"10.1137": "SIAM",
	"10.4324": "Routledge",
	"10.1017": "Cambridge University Press",
}

// bookChapterPrefixes are registrants whose DOIs with an ISBN token are
// book chapters.
var bookChapterPrefixes = map[string]string{
	"10.1007": "Springer",
	"10.1002": "Wiley",
	"10.1016": "Elsevier",
	"10.4324": "Routledge",
	"10.1017": "Cambridge University Press",
	"10.5772": "IntechOpen",
}

// datasetPrefixes are DOI registrants of dataset repositories.
var datasetPrefixes = map[string]string{
	"10.5281": "Zenodo",
	"10.6084": "Figshare",
	"10.5061": "Dryad",
	"10.7910": "Harvard Dataverse",
	"10.17632": "Mendeley Data",
}

// Classify inspects a DOI and returns its classification. An empty DOI
// classifies as TypeUnknown with no warning.
func Classify(doi string) Classification {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return Classification{Type: TypeUnknown}
	}

	for _, p := range reviewPatterns {
		if p.MatchString(doi) {
			return Classification{
				Type:    TypeReview,
				Warning: fmt.Sprintf("DOI %s identifies a peer review, not a paper", doi),
			}
		}
	}

	prefix := registrantPrefix(doi)

	if publisher, ok := bookChapterPrefixes[prefix]; ok && isbnToken.MatchString(doi) {
		return Classification{
			Type:        TypeBookChapter,
			Publisher:   publisher,
			IsPaywalled: true,
			Warning:     fmt.Sprintf("DOI %s looks like a %s book chapter (embedded ISBN)", doi, publisher),
		}
	}

	if publisher, ok := datasetPrefixes[prefix]; ok {
		return Classification{
			Type:      TypeDataset,
			Publisher: publisher,
			Warning:   fmt.Sprintf("DOI %s identifies a %s dataset deposit, not a paper", doi, publisher),
		}
	}

	if publisher, ok := paywalledPublishers[prefix]; ok {
		return Classification{
			Type:        TypePaper,
			Publisher:   publisher,
			IsPaywalled: true,
		}
	}

	return Classification{Type: TypePaper}
}

// IsProblematic reports whether the DOI must be hard-rejected before any
// source attempt, with a human-readable reason. Only review, book-chapter
// and dataset classifications qualify; a paywall hint alone does not.
func IsProblematic(doi string) (bool, string) {
	c := Classify(doi)
	switch c.Type {
	case TypeReview, TypeBookChapter, TypeDataset:
		return true, c.Warning
	default:
		return false, ""
	}
}

// registrantPrefix returns the "10.NNNN" registrant part of a DOI.
func registrantPrefix(doi string) string {
	if idx := strings.Index(doi, "/"); idx > 0 {
		return doi[:idx]
	}
	return doi
}
