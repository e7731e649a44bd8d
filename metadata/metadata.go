package metadata

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"

	ioutils "github.com/jfrog/gofrog/io"
	"github.com/pkg/errors"
	"howett.net/plist"
)

// Info is what could be learned about the application inside a zip archive.
// Every field is optional; callers use Info only to pre-populate a publish
// request and never depend on extraction succeeding.
type Info struct {
	BundleIdentifier string `json:"bundle_identifier,omitempty"`
	Version          string `json:"version,omitempty"`
	Name             string `json:"name,omitempty"`
}

type bundlePlist struct {
	CFBundleIdentifier         string `plist:"CFBundleIdentifier"`
	CFBundleShortVersionString string `plist:"CFBundleShortVersionString"`
	CFBundleVersion            string `plist:"CFBundleVersion"`
	CFBundleDisplayName        string `plist:"CFBundleDisplayName"`
	CFBundleName               string `plist:"CFBundleName"`
}

// Inspect reads the Info.plist of the first .app bundle found in the archive.
// An archive without a bundle is not an error; the returned Info is simply
// sparse. Only a missing or corrupt zip fails.
func Inspect(archivePath string) (info *Info, err error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read archive '%s'", archivePath)
	}
	defer ioutils.Close(reader, &err)

	info = FromFileName(archivePath)
	for _, file := range reader.File {
		if !isBundleInfoPlist(file.Name) {
			continue
		}
		bundle, err := decodeInfoPlist(file)
		if err != nil {
			// Corrupt plists are skipped, extraction stays best-effort.
			continue
		}
		if bundle.CFBundleIdentifier != "" {
			info.BundleIdentifier = bundle.CFBundleIdentifier
		}
		if version := firstNonEmpty(bundle.CFBundleShortVersionString, bundle.CFBundleVersion); version != "" {
			info.Version = version
		}
		if name := firstNonEmpty(bundle.CFBundleDisplayName, bundle.CFBundleName); name != "" {
			info.Name = name
		}
		break
	}
	return info, nil
}

// FromFileName derives a package name from the archive file name, assuming
// the "Name-1.0.zip" or "Name.zip" convention.
func FromFileName(archivePath string) *Info {
	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	name, _, _ := strings.Cut(base, "-")
	return &Info{Name: strings.ToLower(name)}
}

// isBundleInfoPlist matches "<App>.app/Contents/Info.plist" at any depth.
func isBundleInfoPlist(name string) bool {
	if !strings.HasSuffix(name, "/Contents/Info.plist") {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(name, "/Contents/Info.plist"), ".app")
}

func decodeInfoPlist(file *zip.File) (bundle *bundlePlist, err error) {
	opened, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer ioutils.Close(opened, &err)
	content, err := io.ReadAll(opened)
	if err != nil {
		return nil, err
	}
	bundle = new(bundlePlist)
	if _, err := plist.Unmarshal(content, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
