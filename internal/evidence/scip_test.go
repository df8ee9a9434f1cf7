package evidence

import (
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	dserrors "deadsym/internal/errors"
)

func sampleIndex() *scippb.Index {
	def := int32(scippb.SymbolRole_Definition)
	return &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "Sources/Home.m",
				Occurrences: []*scippb.Occurrence{
					{Symbol: "scip-clang . . . HomeViewController#", SymbolRoles: def},
					{Symbol: "scip-clang . . . BaseViewController#"},
					{Symbol: "scip-clang . . . Analytics#track()."},
					{Symbol: "local 4"},
				},
			},
			{
				RelativePath: "Sources/Legacy.m",
				Occurrences: []*scippb.Occurrence{
					{Symbol: "scip-clang . . . LegacyHelper#", SymbolRoles: def},
				},
			},
		},
	}
}

func TestSCIPEvidence(t *testing.T) {
	e := SCIPEvidence(sampleIndex())
	assert.Equal(t, SourceSCIP, e.Source)
	assert.Equal(t, []string{"Analytics", "BaseViewController"}, e.Names())
}

func TestLoadSCIPEvidence(t *testing.T) {
	data, err := proto.Marshal(sampleIndex())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "index.scip")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	e, err := LoadSCIPEvidence(path)
	require.NoError(t, err)
	assert.True(t, e.Used["BaseViewController"])
	assert.False(t, e.Used["LegacyHelper"])

	_, err = LoadSCIPEvidence(filepath.Join(t.TempDir(), "missing.scip"))
	assert.Equal(t, dserrors.EvidenceUnavailable, dserrors.CodeOf(err))
}
