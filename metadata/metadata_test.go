package metadata

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.example.mytool</string>
	<key>CFBundleShortVersionString</key>
	<string>1.2.0</string>
	<key>CFBundleDisplayName</key>
	<string>My Tool</string>
</dict>
</plist>
`

func writeZip(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	writer := zip.NewWriter(file)
	for entryName, content := range files {
		entry, err := writer.Create(entryName)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
	return path
}

func TestInspectReadsBundlePlist(t *testing.T) {
	archivePath := writeZip(t, "MyTool-1.2.0.zip", map[string]string{
		"MyTool.app/Contents/Info.plist":   infoPlist,
		"MyTool.app/Contents/MacOS/MyTool": "binary",
	})

	info, err := Inspect(archivePath)
	require.NoError(t, err)
	assert.Equal(t, "com.example.mytool", info.BundleIdentifier)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "My Tool", info.Name)
}

func TestInspectWithoutBundleFallsBackToFileName(t *testing.T) {
	archivePath := writeZip(t, "MyTool-1.2.0.zip", map[string]string{
		"mytool": "binary",
	})

	info, err := Inspect(archivePath)
	require.NoError(t, err)
	assert.Empty(t, info.BundleIdentifier)
	assert.Empty(t, info.Version)
	assert.Equal(t, "mytool", info.Name)
}

func TestInspectMissingArchive(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "absent.zip"))
	assert.Error(t, err)
}

func TestFromFileName(t *testing.T) {
	assert.Equal(t, "mytool", FromFileName("/dist/MyTool-1.0.zip").Name)
	assert.Equal(t, "mytool", FromFileName("MyTool.zip").Name)
}
