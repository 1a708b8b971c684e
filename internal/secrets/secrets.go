// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files: the filename is the key name, the trimmed contents are
// the value.
//
// Key files paperfetch looks for: semantic-scholar-api-key,
// unpaywall-email, openalex-email, proxy-credentials.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads every regular file in dir into a key/value map. A missing
// directory is not an error; Load returns an empty map. Unreadable files
// produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if v := strings.TrimSpace(string(data)); v != "" {
			out[entry.Name()] = v
		}
	}

	return out, nil
}

// Get returns the secret for key, or fallback when fallback is non-empty.
// An explicitly configured value always wins over a secrets file.
func Get(m map[string]string, key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return m[key]
}
