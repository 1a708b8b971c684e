// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match provides pure title-similarity heuristics used to confirm
// that a candidate search result is the requested paper.
package match

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the Jaccard similarity accepted by Titles when the
// caller has no stricter requirement.
const DefaultThreshold = 0.6

// Normalize lowercases a title, strips punctuation, and collapses
// whitespace.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Titles reports whether two titles refer to the same paper. Rules are
// applied in order, strictest first, short-circuiting on the first hit:
//
//  1. substring containment, with the shorter at least 60% of the longer's
//     character length;
//  2. word-subset containment, with the shorter at least 60% of the
//     longer's word count;
//  3. Jaccard similarity of word sets at or above threshold.
//
// The length guards keep short titles from spuriously matching unrelated
// long ones that merely contain them.
func Titles(expected, actual string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	a := Normalize(expected)
	b := Normalize(actual)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) &&
		float64(len(shorter)) >= 0.6*float64(len(longer)) {
		return true
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	small, large := wordsA, wordsB
	if len(small) > len(large) {
		small, large = large, small
	}
	if isSubset(small, large) &&
		float64(len(small)) >= 0.6*float64(len(large)) {
		return true
	}

	return jaccard(wordsA, wordsB) >= threshold
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func isSubset(small, large map[string]struct{}) bool {
	for w := range small {
		if _, ok := large[w]; !ok {
			return false
		}
	}
	return true
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
