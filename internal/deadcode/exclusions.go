package deadcode

import (
	"path/filepath"
	"strings"

	"deadsym/internal/scanner"
)

// ExclusionRules decides which paths are walked and which names become
// candidates. It implements symbols.Filter.
type ExclusionRules struct {
	root           string
	patterns       []string
	ignorePaths    []string
	ignorePrefixes []string
	whitelist      string
	skipVendored   bool
}

// ExclusionConfig configures NewExclusionRules.
type ExclusionConfig struct {
	// Root resolves relative IgnorePaths.
	Root string
	// Patterns are globs matched against names, base names and root-relative paths.
	Patterns []string
	// IgnorePaths are path prefixes to skip.
	IgnorePaths []string
	// IgnorePrefixes drop names such as system classes (NS, UI).
	IgnorePrefixes []string
	// Whitelist keeps only names starting with it.
	Whitelist string
	// SkipVendored prunes hidden directories and third-party or build
	// output (Pods, Carthage, build, *.framework).
	SkipVendored bool
}

// NewExclusionRules creates exclusion rules.
func NewExclusionRules(cfg ExclusionConfig) *ExclusionRules {
	return &ExclusionRules{
		root:           cfg.Root,
		patterns:       cfg.Patterns,
		ignorePrefixes: cfg.IgnorePrefixes,
		whitelist:      cfg.Whitelist,
		skipVendored:   cfg.SkipVendored,
		ignorePaths:    scanner.ResolveIgnorePaths(cfg.Root, cfg.IgnorePaths),
	}
}

// IgnorePaths returns the resolved ignore prefixes.
func (r *ExclusionRules) IgnorePaths() []string {
	return r.ignorePaths
}

// SkipPath reports whether a file or directory is excluded.
func (r *ExclusionRules) SkipPath(path string, isDir bool) bool {
	return r.PathReason(path, isDir) != ""
}

// PathReason returns why path is excluded, or "" when it is not.
func (r *ExclusionRules) PathReason(path string, isDir bool) string {
	for _, p := range r.ignorePaths {
		if strings.HasPrefix(path, p) {
			return "under ignored path " + p
		}
	}

	if isDir && r.skipVendored {
		if isHiddenDir(filepath.Base(path)) {
			return "hidden directory"
		}
		if isVendoredDir(filepath.Base(path)) {
			return "vendored or generated directory"
		}
	}

	rel := path
	if r.root != "" {
		if p, err := filepath.Rel(r.root, path); err == nil {
			rel = filepath.ToSlash(p)
		}
	}
	for _, pattern := range r.patterns {
		if matchPattern(pattern, filepath.Base(path)) || matchPattern(pattern, rel) {
			return "matches exclusion pattern: " + pattern
		}
	}
	return ""
}

// SkipName reports whether a candidate name is excluded.
func (r *ExclusionRules) SkipName(name string) bool {
	return r.NameReason(name) != ""
}

// NameReason returns why name is excluded, or "" when it is not.
func (r *ExclusionRules) NameReason(name string) string {
	for _, p := range r.ignorePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return "ignored prefix " + p
		}
	}
	if r.whitelist != "" && !strings.HasPrefix(name, r.whitelist) {
		return "outside whitelist prefix " + r.whitelist
	}
	for _, pattern := range r.patterns {
		if matchPattern(pattern, name) {
			return "matches exclusion pattern: " + pattern
		}
	}
	return ""
}

// matchPattern matches a glob, treating ** as "anywhere in the path".
func matchPattern(pattern, s string) bool {
	if matched, _ := filepath.Match(pattern, s); matched {
		return true
	}
	if strings.Contains(pattern, "**") {
		simplified := strings.ReplaceAll(pattern, "**", "")
		simplified = strings.ReplaceAll(simplified, "*", "")
		simplified = strings.Trim(simplified, "/")
		return simplified != "" && strings.Contains(s, simplified)
	}
	return false
}

// isVendoredDir checks if a directory holds third-party or build output.
func isVendoredDir(name string) bool {
	switch name {
	case "Pods", "Carthage", "DerivedData", "build", "SourcePackages":
		return true
	}
	return strings.HasSuffix(name, ".framework") || strings.HasSuffix(name, ".xcframework")
}

func isHiddenDir(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
