package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "deadsym/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, []string{".m"}, cfg.Code.Extensions)
	assert.Equal(t, []string{".png", ".svga", ".mp3", ".mp4"}, cfg.Resources.Extensions)
	assert.Equal(t, []string{"NS", "UI"}, cfg.Classes.IgnorePrefixes)
	assert.True(t, cfg.Resources.Grouping)
	assert.False(t, cfg.Classes.Grouping)
	assert.Equal(t, 1, cfg.Scan.Workers)
	assert.Equal(t, 1000, cfg.Scan.ProgressIntervalMs)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	d := DefaultConfig()
	assert.Equal(t, d.Version, cfg.Version)
	assert.Equal(t, d.Code.Extensions, cfg.Code.Extensions)
	assert.Equal(t, d.Resources.Extensions, cfg.Resources.Extensions)
	assert.Equal(t, d.Resources.Grouping, cfg.Resources.Grouping)
	assert.Equal(t, d.Classes.DeclarationPatterns, cfg.Classes.DeclarationPatterns)
	assert.Equal(t, d.Classes.IgnorePrefixes, cfg.Classes.IgnorePrefixes)
	assert.Equal(t, d.Scan, cfg.Scan)
	assert.Equal(t, d.Output, cfg.Output)
	assert.Empty(t, cfg.Code.IgnorePaths)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	root := t.TempDir()
	content := `
version = 1

[code]
extensions = ["m", ".MM"]
ignore_paths = ["/proj/Pods"]

[scan]
workers = 4

[output]
format = "JSON"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, []string{".m", ".mm"}, cfg.Code.Extensions)
	assert.Equal(t, []string{"/proj/Pods"}, cfg.Code.IgnorePaths)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, "json", cfg.Output.Format)
	// untouched sections keep defaults
	assert.Equal(t, []string{".png", ".svga", ".mp3", ".mp4"}, cfg.Resources.Extensions)
	assert.Equal(t, 1000, cfg.Scan.ProgressIntervalMs)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("DEADSYM_SCAN_WORKERS", "8")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scan.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad version", content: "version = 7\n"},
		{name: "bad format", content: "[output]\nformat = \"xml\"\n"},
		{name: "too many workers", content: "[scan]\nworkers = 1000\n"},
		{name: "no capture group", content: "[classes]\ndeclaration_patterns = ['@interface\\s+\\w+']\n"},
		{name: "broken toml", content: "[scan\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(tt.content), 0o644))

			_, err := LoadConfig(root)
			require.Error(t, err)
			assert.Equal(t, dserrors.ConfigInvalid, dserrors.CodeOf(err))
		})
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	root := t.TempDir()

	path, err := WriteDefault(root, false)
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Classes.DeclarationPatterns, cfg.Classes.DeclarationPatterns)
	assert.Equal(t, DefaultConfig().Resources.Extensions, cfg.Resources.Extensions)
	assert.True(t, cfg.Resources.Grouping)

	_, err = WriteDefault(root, false)
	assert.Error(t, err, "second write without force must refuse")

	_, err = WriteDefault(root, true)
	assert.NoError(t, err)
}

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"PNG", " .mp3", "", ".png", "svga"})
	assert.Equal(t, []string{".png", ".mp3", ".svga"}, got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"NS", "UI", "CA"}, SplitList("NS; UI,CA", ",;"))
	assert.Equal(t, []string{"/a/Pods", "/a/Vendor"}, SplitList("  /a/Pods   /a/Vendor ", " "))
	assert.Empty(t, SplitList("", ","))
}

func TestExtensionSet(t *testing.T) {
	set := ExtensionSet([]string{"m", ".MM"})
	assert.Equal(t, []string{".m", ".mm"}, SortedKeys(set))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[classes]\nwhitelist = \"XY\"\n"), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "XY", cfg.Classes.Whitelist)
	assert.Equal(t, []string{"NS", "UI"}, cfg.Classes.IgnorePrefixes)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, dserrors.ConfigInvalid, dserrors.CodeOf(err))
}
