// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "semantic-scholar-api-key"), []byte("abc123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unpaywall-email"), []byte("  ops@example.org  "), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("nope"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("   \n"), 0o600))

	got, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "abc123", got["semantic-scholar-api-key"])
	assert.Equal(t, "ops@example.org", got["unpaywall-email"])
	assert.NotContains(t, got, ".hidden")
	assert.NotContains(t, got, "empty")
}

func TestLoadMissingDir(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGet(t *testing.T) {
	m := map[string]string{"openalex-email": "alex@example.org"}
	assert.Equal(t, "alex@example.org", Get(m, "openalex-email", ""))
	assert.Equal(t, "explicit", Get(m, "openalex-email", "explicit"))
	assert.Equal(t, "", Get(m, "missing", ""))
}
