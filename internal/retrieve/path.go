// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// defaultFilenameTemplate names PDFs Author_Year_Title_Words.pdf.
const defaultFilenameTemplate = "{first_author}_{year}_{title_short}"

// titleShortWords caps how many leading title words enter the filename.
const titleShortWords = 8

// maxStemLen keeps filenames under common filesystem limits with room
// for the extension and a subfolder copy of the stem.
const maxStemLen = 120

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// PathBuilder derives the output path for a paper's PDF from resolved
// metadata and the output configuration.
type PathBuilder struct {
	cfg types.OutputConfig
}

// NewPathBuilder creates a PathBuilder.
func NewPathBuilder(cfg types.OutputConfig) *PathBuilder {
	return &PathBuilder{cfg: cfg}
}

// Build returns the full destination path for the paper. The same
// metadata always yields the same path, so re-runs find their earlier
// downloads. Papers with no usable metadata fall back to a DOI-derived
// name, then to a timestamp.
func (p *PathBuilder) Build(meta *types.Metadata) string {
	stem := p.stem(meta)
	dir := p.cfg.Dir
	if p.cfg.Subfolders {
		dir = filepath.Join(dir, stem)
	}
	return filepath.Join(dir, stem+".pdf")
}

func (p *PathBuilder) stem(meta *types.Metadata) string {
	if meta == nil || (meta.Title == "" && len(meta.Authors) == 0 && meta.Year == 0) {
		if meta != nil && meta.DOI != "" {
			return sanitizeStem(strings.ReplaceAll(meta.DOI, "/", "_"))
		}
		return "paper_" + time.Now().UTC().Format("20060102_150405")
	}

	tmpl := p.cfg.FilenameTemplate
	if tmpl == "" {
		tmpl = defaultFilenameTemplate
	}

	year := "XXXX"
	if meta.Year > 0 {
		year = strconv.Itoa(meta.Year)
	}

	stem := strings.NewReplacer(
		"{first_author}", firstAuthorSurname(meta),
		"{year}", year,
		"{title_short}", titleShort(meta.Title),
		"{doi}", strings.ReplaceAll(meta.DOI, "/", "_"),
	).Replace(tmpl)

	// Templates may spell the extension out; Build appends it exactly once.
	stem = strings.TrimSuffix(stem, ".pdf")

	return sanitizeStem(stem)
}

// firstAuthorSurname pulls a single surname token for the filename:
// the family name when split, otherwise the last word of the display
// name, otherwise "Unknown".
func firstAuthorSurname(meta *types.Metadata) string {
	if len(meta.Authors) == 0 {
		return "Unknown"
	}
	a := meta.Authors[0]
	if a.Family != "" {
		return a.Family
	}
	fields := strings.Fields(a.Name)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[len(fields)-1]
}

// titleShort joins the leading title words with underscores.
func titleShort(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return "paper"
	}
	if len(words) > titleShortWords {
		words = words[:titleShortWords]
	}
	return strings.Join(words, "_")
}

// sanitizeStem strips characters that are unsafe in filenames and caps
// the length.
func sanitizeStem(stem string) string {
	stem = unsafeFilenameChars.ReplaceAllString(stem, "_")
	stem = repeatedUnderscores.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "paper"
	}
	if len(stem) > maxStemLen {
		stem = strings.Trim(stem[:maxStemLen], "._-")
	}
	return stem
}
