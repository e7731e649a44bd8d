package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRequestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRequestFile(t *testing.T) {
	path := writeRequestFile(t, `{
		"artifact_path": "/dist/mytool-1.2.0.zip",
		"name": "mytool",
		"version": "1.2.0",
		"description": "My awesome tool",
		"owner": "octocat",
		"source_repo": "mytool",
		"tap_repo": "homebrew-tap",
		"kind": "formula"
	}`)

	request, err := LoadRequestFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mytool", request.Name)
	assert.Equal(t, "1.2.0", request.Version)
	assert.Equal(t, entities.Formula, request.Kind)
	assert.NoError(t, request.Validate())
}

func TestLoadRequestFileRejectsBadKind(t *testing.T) {
	path := writeRequestFile(t, `{
		"artifact_path": "/dist/mytool-1.2.0.zip",
		"name": "mytool",
		"version": "1.2.0",
		"owner": "octocat",
		"source_repo": "mytool",
		"tap_repo": "homebrew-tap",
		"kind": "bottle"
	}`)

	_, err := LoadRequestFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind")
}

func TestLoadRequestFileRejectsMissingFields(t *testing.T) {
	path := writeRequestFile(t, `{"name": "mytool"}`)

	_, err := LoadRequestFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request file")
}

func TestLoadRequestFileRejectsUnknownFields(t *testing.T) {
	path := writeRequestFile(t, `{
		"artifact_path": "/dist/mytool-1.2.0.zip",
		"name": "mytool",
		"version": "1.2.0",
		"owner": "octocat",
		"source_repo": "mytool",
		"tap_repo": "homebrew-tap",
		"kind": "formula",
		"surprise": true
	}`)

	_, err := LoadRequestFile(path)
	assert.Error(t, err)
}

func TestKindOrDefault(t *testing.T) {
	assert.Equal(t, entities.Cask, kindOrDefault(""))
	assert.Equal(t, entities.Formula, kindOrDefault("formula"))
	assert.Equal(t, entities.Cask, kindOrDefault("cask"))
}
