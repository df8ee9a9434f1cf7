package evidence

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "deadsym/internal/errors"
)

const sampleLinkMap = `# Path: /build/App.app/App
# Arch: arm64
# Object files:
[  0] linker synthesized
[  1] /build/Foo.o
[  2] /build/Bar.o
# Sections:
# Address	Size    	Segment	Section
0x100004000	0x00001000	__TEXT	__text
# Symbols:
# Address	Size    	File  Name
0x100004000	0x00000040	[  1] -[Foo init]
0x100008000	0x00000028	[  1] _OBJC_CLASS_$_Foo
0x100008028	0x00000028	[  2] _OBJC_CLASS_$_Bar
0x100008050	0x00000028	[  2] _OBJC_METACLASS_$_Bar
# Dead Stripped Symbols:
#        	Size    	File  Name
<<dead>> 	0x00000018	[  2] _OBJC_CLASS_$_Gone
`

func TestParseLinkMap(t *testing.T) {
	m, err := ParseLinkMap(strings.NewReader(sampleLinkMap))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	name, ok := m.Resolve("0x100008000")
	assert.True(t, ok)
	assert.Equal(t, "Foo", name)

	name, ok = m.Resolve("100008028")
	assert.True(t, ok)
	assert.Equal(t, "Bar", name)

	_, ok = m.Resolve("0x100004000")
	assert.False(t, ok, "only class symbols are kept")
}

func TestLoadLinkMap_Compressed(t *testing.T) {
	dir := t.TempDir()

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write([]byte(sampleLinkMap))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzPath := filepath.Join(dir, "App-LinkMap.txt.gz")
	require.NoError(t, os.WriteFile(gzPath, gzBuf.Bytes(), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := filepath.Join(dir, "App-LinkMap.txt.zst")
	require.NoError(t, os.WriteFile(zstPath, enc.EncodeAll([]byte(sampleLinkMap), nil), 0o644))
	require.NoError(t, enc.Close())

	plainPath := filepath.Join(dir, "App-LinkMap.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte(sampleLinkMap), 0o644))

	for _, path := range []string{plainPath, gzPath, zstPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, err := LoadLinkMap(path)
			require.NoError(t, err)
			assert.Equal(t, 2, m.Len())
		})
	}
}

func TestLoadLinkMap_Missing(t *testing.T) {
	_, err := LoadLinkMap(filepath.Join(t.TempDir(), "none.txt"))
	require.Error(t, err)
	assert.Equal(t, dserrors.EvidenceUnavailable, dserrors.CodeOf(err))
	assert.False(t, dserrors.IsFatal(err))
}
