package entities

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

type PublishKind string

const (
	// Formula is a command-line tool manifest (installed into bin).
	Formula PublishKind = "formula"
	// Cask is a GUI application manifest (installed as a .app bundle).
	Cask PublishKind = "cask"
)

func (k PublishKind) Valid() bool {
	return k == Formula || k == Cask
}

// PublishRequest describes one publish run. It is built once, validated, and
// then treated as immutable for the duration of the run.
type PublishRequest struct {
	ArtifactPath string      `json:"artifact_path"`
	Name         string      `json:"name"`
	Version      string      `json:"version"`
	Description  string      `json:"description,omitempty"`
	Homepage     string      `json:"homepage,omitempty"`
	Owner        string      `json:"owner"`
	SourceRepo   string      `json:"source_repo"`
	TapRepo      string      `json:"tap_repo"`
	Kind         PublishKind `json:"kind"`
}

func (r *PublishRequest) Validate() error {
	if r.Name == "" {
		return errors.New("a package name must be provided")
	}
	if r.Version == "" {
		return errors.New("a version tag must be provided")
	}
	if r.Owner == "" {
		return errors.New("a repository owner must be provided")
	}
	if r.SourceRepo == "" {
		return errors.New("a source repository name must be provided")
	}
	if r.TapRepo == "" {
		return errors.New("a tap repository name must be provided")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("unsupported package kind '%s', expecting '%s' or '%s'", r.Kind, Formula, Cask)
	}
	if r.ArtifactPath == "" {
		return errors.New("an artifact file must be provided")
	}
	return nil
}

// FullSourceRepo returns the owner-qualified source repository ("owner/repo").
func (r *PublishRequest) FullSourceRepo() string {
	return r.Owner + "/" + r.SourceRepo
}

// FullTapRepo returns the owner-qualified package-index repository.
func (r *PublishRequest) FullTapRepo() string {
	return r.Owner + "/" + r.TapRepo
}

// ArtifactFileName is the base name under which the artifact is attached to
// the release.
func (r *PublishRequest) ArtifactFileName() string {
	return filepath.Base(r.ArtifactPath)
}

// IsSemverTag reports whether tag parses as a semantic version. Tags are not
// required to be semver; callers use this only to warn about unusual tags.
func IsSemverTag(tag string) bool {
	_, err := semver.NewVersion(tag)
	return err == nil
}

// ManifestSpec carries everything needed to render a package manifest.
// Rendering is a pure function of these values.
type ManifestSpec struct {
	Kind        PublishKind
	Name        string
	Description string
	Homepage    string
	Version     string
	Sha256      string
	DownloadUrl string
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a single progress line of a publish run. Events are appended by
// the orchestrator in execution order and never mutated afterwards.
type Event struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}
