// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/paperfetch/internal/httputil"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// minPDFSize rejects error pages and stub responses masquerading as PDFs.
const minPDFSize = 1024

var pdfMagic = []byte("%PDF")

// fetchPDF downloads url to destPath and validates the content. It
// returns (nil, nil) when the server has nothing usable: non-200 status,
// non-PDF content, or a body under the size threshold. The file is
// written to a temp name and renamed into place only after validation, so
// destPath either holds a valid PDF or does not exist.
func (b clientBase) fetchPDF(ctx context.Context, url, destPath string) (*types.DownloadOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.http.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".paperfetch-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	size, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			return nil, fmt.Errorf("writing download: %w", copyErr)
		}
		return nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if !ValidPDFFile(tmpPath) {
		os.Remove(tmpPath)
		return nil, nil
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("renaming temp file: %w", err)
	}

	return &types.DownloadOutcome{Path: destPath, Size: size}, nil
}

// FetchPDF downloads url to destPath with the standard validation and
// temp-file discipline, outside any particular source. The retriever uses
// it for direct PDF URLs supplied as input or discovered at resolution.
func FetchPDF(ctx context.Context, client *http.Client, cfg types.HTTPConfig, url, destPath string) (*types.DownloadOutcome, error) {
	return clientBase{client: client, http: cfg}.fetchPDF(ctx, url, destPath)
}

// ValidPDFFile reports whether path holds something shaped like a PDF:
// at least minPDFSize bytes and the %PDF signature up front.
func ValidPDFFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() < minPDFSize {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, pdfMagic)
}
