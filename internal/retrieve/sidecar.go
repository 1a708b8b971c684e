// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// sidecarDoc is the YAML document written next to each downloaded PDF.
type sidecarDoc struct {
	Retrieved time.Time       `yaml:"retrieved"`
	Source    string          `yaml:"source"`
	Input     string          `yaml:"input"`
	Metadata  *types.Metadata `yaml:"metadata"`
}

// writeSidecar stores the resolved metadata as <pdf>.yaml beside the PDF
// via a temp file and rename, like every other output this tool writes.
func writeSidecar(pdfPath, source, input string, meta *types.Metadata) error {
	doc := sidecarDoc{
		Retrieved: time.Now().UTC(),
		Source:    source,
		Input:     input,
		Metadata:  meta,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}

	path := sidecarPath(pdfPath)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".paperfetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating sidecar temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing sidecar: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming sidecar: %w", err)
	}
	return nil
}

// sidecarPath maps paper.pdf to paper.yaml.
func sidecarPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
}
