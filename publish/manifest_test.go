package publish

import (
	"testing"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/stretchr/testify/assert"
)

func formulaSpec() entities.ManifestSpec {
	return entities.ManifestSpec{
		Kind:        entities.Formula,
		Name:        "mytool",
		Description: "My awesome tool",
		Homepage:    "https://example.com",
		Version:     "1.2.0",
		Sha256:      "abc123def456",
		DownloadUrl: "https://dl/x.zip",
	}
}

func TestGenerateFormulaManifest(t *testing.T) {
	content, path, err := GenerateManifest(formulaSpec())
	assert.NoError(t, err)
	assert.Equal(t, "Formula/mytool.rb", path)
	assert.Contains(t, content, "class Mytool < Formula")
	assert.Contains(t, content, `desc "My awesome tool"`)
	assert.Contains(t, content, `homepage "https://example.com"`)
	assert.Contains(t, content, `url "https://dl/x.zip"`)
	assert.Contains(t, content, `version "1.2.0"`)
	assert.Contains(t, content, `sha256 "abc123def456"`)
	assert.Contains(t, content, `bin.install "mytool"`)
}

func TestGenerateCaskManifest(t *testing.T) {
	spec := formulaSpec()
	spec.Kind = entities.Cask
	spec.Name = "My Tool"

	content, path, err := GenerateManifest(spec)
	assert.NoError(t, err)
	assert.Equal(t, "Casks/my-tool.rb", path)
	assert.Contains(t, content, `cask "my-tool" do`)
	assert.Contains(t, content, `name "My Tool"`)
	assert.Contains(t, content, `app "My Tool.app"`)
	assert.Contains(t, content, `depends_on macos: ">= :monterey"`)
	assert.Contains(t, content, "auto_updates true")
}

func TestGenerateManifestDeterministic(t *testing.T) {
	first, firstPath, err := GenerateManifest(formulaSpec())
	assert.NoError(t, err)
	second, secondPath, err := GenerateManifest(formulaSpec())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, firstPath, secondPath)
}

func TestGenerateManifestUnknownKind(t *testing.T) {
	spec := formulaSpec()
	spec.Kind = "bottle"
	_, _, err := GenerateManifest(spec)
	assert.Error(t, err)
}
