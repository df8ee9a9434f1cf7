// Package evidence produces and reconciles independent used-name sets.
//
// Every source reports names it saw referenced. Reconcile unions them, so a
// name marked used by any source is used; no source can mark a name unused.
package evidence

import "sort"

// Source names.
const (
	SourceScan       = "scan"
	SourcePatterns   = "patterns"
	SourceBinary     = "binary"
	SourceSuperclass = "superclass"
	SourceSCIP       = "scip"
	SourceKeep       = "keep"
)

// Evidence is one source's used-name set.
type Evidence struct {
	Source string
	Used   map[string]bool
}

// New creates an Evidence from a list of names.
func New(source string, names ...string) Evidence {
	e := Evidence{Source: source, Used: make(map[string]bool, len(names))}
	for _, n := range names {
		if n != "" {
			e.Used[n] = true
		}
	}
	return e
}

// FromSet wraps an existing set without copying it.
func FromSet(source string, used map[string]bool) Evidence {
	if used == nil {
		used = make(map[string]bool)
	}
	return Evidence{Source: source, Used: used}
}

// Names returns the used names in ascending order.
func (e Evidence) Names() []string {
	return sortedKeys(e.Used)
}

// Len returns the number of used names.
func (e Evidence) Len() int {
	return len(e.Used)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
