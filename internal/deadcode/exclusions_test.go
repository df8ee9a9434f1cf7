package deadcode

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusionRules_SkipPath(t *testing.T) {
	root := filepath.FromSlash("/proj")
	rules := NewExclusionRules(ExclusionConfig{
		Root:        root,
		Patterns:     []string{"*Tests.m", "**/Generated/**"},
		IgnorePaths:  []string{"ThirdParty", "/abs/skip"},
		SkipVendored: true,
	})

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"/proj/App/Home.m", false, false},
		{"/proj/ThirdParty/Lib.m", false, true},
		{"/abs/skip/x.m", false, true},
		{"/proj/Pods", true, true},
		{"/proj/Carthage", true, true},
		{"/proj/Vendor/Foo.framework", true, true},
		{"/proj/.git", true, true},
		{"/proj/App/HomeTests.m", false, true},
		{"/proj/App/Generated/Strings.m", false, true},
		{"/proj/build", true, true},
		{"/proj/builder", true, false},
		// vendored names only apply to directories
		{"/proj/App/Pods", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.SkipPath(filepath.FromSlash(tt.path), tt.isDir))
		})
	}
}

func TestExclusionRules_VendoredOffByDefault(t *testing.T) {
	rules := NewExclusionRules(ExclusionConfig{Root: filepath.FromSlash("/proj")})

	for _, dir := range []string{"/proj/Pods", "/proj/build", "/proj/.hidden", "/proj/Lib.framework"} {
		assert.False(t, rules.SkipPath(filepath.FromSlash(dir), true), dir)
	}
}

func TestExclusionRules_SkipName(t *testing.T) {
	rules := NewExclusionRules(ExclusionConfig{
		IgnorePrefixes: []string{"NS", "UI", ""},
		Whitelist:      "XY",
		Patterns:       []string{"*Mock"},
	})

	assert.True(t, rules.SkipName("NSObject"))
	assert.True(t, rules.SkipName("UIView"))
	assert.True(t, rules.SkipName("ABHome"))
	assert.True(t, rules.SkipName("XYServiceMock"))
	assert.False(t, rules.SkipName("XYHome"))

	assert.Equal(t, "ignored prefix NS", rules.NameReason("NSObject"))
	assert.Equal(t, "outside whitelist prefix XY", rules.NameReason("ABHome"))
	assert.Equal(t, "matches exclusion pattern: *Mock", rules.NameReason("XYServiceMock"))
}

func TestExclusionRules_IgnorePaths(t *testing.T) {
	rules := NewExclusionRules(ExclusionConfig{
		Root:        filepath.FromSlash("/proj"),
		IgnorePaths: []string{"", "Pods/", filepath.FromSlash("/other")},
	})
	assert.Equal(t, []string{filepath.FromSlash("/proj/Pods"), "Pods", filepath.FromSlash("/other")}, rules.IgnorePaths())
}

func TestExclusionRules_RelativeIgnorePathsMatchWalkedPaths(t *testing.T) {
	rules := NewExclusionRules(ExclusionConfig{
		Root:        "MyApp",
		IgnorePaths: []string{"./MyApp/Vendor", "Pods"},
	})

	assert.True(t, rules.SkipPath(filepath.FromSlash("MyApp/Vendor/Lib.m"), false))
	assert.True(t, rules.SkipPath(filepath.FromSlash("MyApp/Pods"), true))
	assert.False(t, rules.SkipPath(filepath.FromSlash("MyApp/Sources/Home.m"), false))
}
