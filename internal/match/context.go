// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "strings"

// Several machine-learning systems are named after animals or other common
// nouns, so a title search for one can surface zoology, ecology, or
// veterinary papers instead. TitleContextMismatch scores the candidate's
// title and abstract for such off-domain evidence before a metadata-derived
// DOI is accepted.

// offDomainTerms indicate the common-noun reading of an ambiguous name.
var offDomainTerms = []string{
	"species", "habitat", "wildlife", "ecology", "ecosystem",
	"veterinary", "zoo", "mammal", "rodent", "primate", "breeding",
	"conservation", "fauna", "biodiversity", "taxonomy", "specimen",
	"captivity", "forage", "predator", "genome assembly",
}

// expectedDomainTerms indicate the computing reading.
var expectedDomainTerms = []string{
	"model", "neural", "network", "learning", "training", "transformer",
	"language", "benchmark", "dataset", "algorithm", "inference",
	"embedding", "token", "fine-tuning", "evaluation", "architecture",
	"attention", "parameter", "gpu", "llm",
}

// TitleContextMismatch reports whether a candidate found by title search is
// likely about an unrelated common-noun sense of a term in the expected
// title. It returns true when off-domain evidence dominates: at least two
// off-domain terms appear in the candidate's title+abstract and they
// outnumber expected-domain terms.
func TitleContextMismatch(expectedTitle, actualTitle, actualAbstract string) bool {
	if expectedTitle == "" || actualTitle == "" {
		return false
	}

	// Only relevant when the titles share some term at all; a plainly
	// unrelated candidate is rejected by Titles before this runs.
	haystack := strings.ToLower(actualTitle + " " + actualAbstract)

	off := countTerms(haystack, offDomainTerms)
	if off < 2 {
		return false
	}
	expected := countTerms(haystack, expectedDomainTerms)
	return off > expected
}

func countTerms(haystack string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			n++
		}
	}
	return n
}
