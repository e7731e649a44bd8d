package publish

import (
	"strings"
	"text/template"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/pkg/errors"
)

var formulaTemplate = template.Must(template.New("formula").Parse(
	`class {{.ClassName}} < Formula
  desc "{{.Description}}"
  homepage "{{.Homepage}}"
  url "{{.DownloadUrl}}"
  version "{{.Version}}"
  sha256 "{{.Sha256}}"

  def install
    bin.install "{{.Name}}"
  end
end
`))

var caskTemplate = template.Must(template.New("cask").Parse(
	`cask "{{.Token}}" do
  version "{{.Version}}"
  sha256 "{{.Sha256}}"

  url "{{.DownloadUrl}}"
  name "{{.Name}}"
  desc "{{.Description}}"
  homepage "{{.Homepage}}"

  auto_updates true
  depends_on macos: ">= :monterey"

  app "{{.Name}}.app"
end
`))

type manifestFields struct {
	entities.ManifestSpec
	ClassName string
	Token     string
}

// GenerateManifest renders the package manifest for spec and returns its
// content together with the target path inside the tap repository. It is a
// pure function: identical specs always yield byte-identical output.
func GenerateManifest(spec entities.ManifestSpec) (content, path string, err error) {
	fields := manifestFields{
		ManifestSpec: spec,
		ClassName:    capitalize(spec.Name),
		Token:        caskToken(spec.Name),
	}
	var rendered strings.Builder
	switch spec.Kind {
	case entities.Formula:
		err = formulaTemplate.Execute(&rendered, fields)
		path = "Formula/" + strings.ToLower(spec.Name) + ".rb"
	case entities.Cask:
		err = caskTemplate.Execute(&rendered, fields)
		path = "Casks/" + fields.Token + ".rb"
	default:
		return "", "", errors.Errorf("unsupported package kind '%s'", spec.Kind)
	}
	if err != nil {
		return "", "", errors.Wrap(err, "failed rendering manifest")
	}
	return rendered.String(), path, nil
}

// capitalize upper-cases the first rune only, matching Homebrew's formula
// class naming ("mytool" -> "Mytool").
func capitalize(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// caskToken normalizes a display name into a cask token ("My Tool" -> "my-tool").
func caskToken(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
