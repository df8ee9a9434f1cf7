package evidence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"deadsym/internal/symbols"
)

func writeLinkMap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "LinkMap.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleLinkMap), 0o644))
	return path
}

// Foo is defined but never referenced directly; it is the superclass of Bar,
// which is referenced.
func TestCollectBinary_SuperclassMakesFooUsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	inspector := NewMockInspector(ctrl)
	ctx := context.Background()

	inspector.EXPECT().DefinedClasses(ctx, "App").Return([]string{"Foo", "Bar", "NSLogger"}, nil)
	inspector.EXPECT().ReferencedClasses(ctx, "App").Return([]string{"Bar"}, nil)
	inspector.EXPECT().SuperclassAddresses(ctx, "App").Return([]string{"100008000"}, nil)

	res, err := CollectBinary(ctx, BinaryOptions{
		Binary:         "App",
		LinkMap:        writeLinkMap(t),
		IgnorePrefixes: []string{"NS", "UI"},
		Inspector:      inspector,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo", "Bar"}, res.Defined)
	require.NotNil(t, res.Superclass)
	assert.Equal(t, []string{"Foo"}, res.Superclass.Names())

	u := symbols.NewUniverse()
	for _, n := range res.Defined {
		u.Add("binary", n)
	}
	v := Reconcile(u, nil, res.Evidence()...)
	assert.True(t, v.IsUsed("Foo"))
	assert.True(t, v.IsUsed("Bar"))
	assert.Empty(t, v.Unused)
	assert.Equal(t, []string{SourceSuperclass}, v.Sources["Foo"])
}

func TestCollectBinary_NoLinkMapSkipsSuperclass(t *testing.T) {
	ctrl := gomock.NewController(t)
	inspector := NewMockInspector(ctrl)
	ctx := context.Background()

	inspector.EXPECT().DefinedClasses(ctx, "App").Return([]string{"Foo", "Bar"}, nil)
	inspector.EXPECT().ReferencedClasses(ctx, "App").Return([]string{"Bar"}, nil)

	res, err := CollectBinary(ctx, BinaryOptions{Binary: "App", Inspector: inspector})
	require.NoError(t, err)
	assert.Nil(t, res.Superclass)

	u := symbols.NewUniverse()
	u.Add("binary", "Foo")
	u.Add("binary", "Bar")
	v := Reconcile(u, nil, res.Evidence()...)
	assert.Equal(t, []string{"Foo"}, v.UnusedIn("binary"))
}

func TestCollectBinary_BadLinkMapDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	inspector := NewMockInspector(ctrl)
	ctx := context.Background()

	inspector.EXPECT().DefinedClasses(ctx, "App").Return([]string{"Foo"}, nil)
	inspector.EXPECT().ReferencedClasses(ctx, "App").Return(nil, nil)

	res, err := CollectBinary(ctx, BinaryOptions{
		Binary:    "App",
		LinkMap:   filepath.Join(t.TempDir(), "missing.txt"),
		Inspector: inspector,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Superclass)
}

func TestCollectBinary_UnresolvedAddresses(t *testing.T) {
	ctrl := gomock.NewController(t)
	inspector := NewMockInspector(ctrl)
	ctx := context.Background()

	inspector.EXPECT().DefinedClasses(ctx, "App").Return([]string{"Foo"}, nil)
	inspector.EXPECT().ReferencedClasses(ctx, "App").Return(nil, nil)
	inspector.EXPECT().SuperclassAddresses(ctx, "App").Return([]string{"dead", "100008028"}, nil)

	res, err := CollectBinary(ctx, BinaryOptions{Binary: "App", LinkMap: writeLinkMap(t), Inspector: inspector})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unresolved)
	assert.Equal(t, []string{"Bar"}, res.Superclass.Names())
}

func TestCollectBinary_InspectorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	inspector := NewMockInspector(ctrl)
	ctx := context.Background()

	boom := errors.New("otool: not found")
	inspector.EXPECT().DefinedClasses(ctx, "App").Return(nil, boom)

	_, err := CollectBinary(ctx, BinaryOptions{Binary: "App", Inspector: inspector})
	assert.ErrorIs(t, err, boom)
}

func TestHasAnyPrefix(t *testing.T) {
	assert.True(t, HasAnyPrefix("NSString", []string{"UI", "NS"}))
	assert.False(t, HasAnyPrefix("Foo", []string{"", "NS"}))
	assert.False(t, HasAnyPrefix("Foo", nil))
}
