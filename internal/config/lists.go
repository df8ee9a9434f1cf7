package config

import (
	"sort"
	"strings"
)

// NormalizeExtensions lower-cases each extension, adds a missing leading dot,
// drops empty entries and duplicates. Order of first appearance is kept.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// SplitList splits raw on any of the separator runes and trims each item.
// SplitList("NS; UI,CA", ",;") == ["NS", "UI", "CA"].
func SplitList(raw, seps string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ExtensionSet turns a normalized extension list into a lookup set.
func ExtensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range NormalizeExtensions(exts) {
		set[e] = true
	}
	return set
}

// SortedKeys returns the keys of set in ascending order.
func SortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
