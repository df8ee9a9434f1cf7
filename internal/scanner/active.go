// Package scanner searches source text for the names still in an active set,
// retiring each name on its first hit.
package scanner

import "sort"

// ActiveSet is the working set of names not yet seen in any file.
// Names can only be removed. An ActiveSet is owned by one scan at a time.
type ActiveSet struct {
	names map[string]bool
}

// NewActiveSet copies names into a new set. Empty names are dropped since
// they would match every file.
func NewActiveSet(names map[string]bool) *ActiveSet {
	a := &ActiveSet{names: make(map[string]bool, len(names))}
	for n, ok := range names {
		if ok && n != "" {
			a.names[n] = true
		}
	}
	return a
}

// Remove retires name and reports whether it was active.
func (a *ActiveSet) Remove(name string) bool {
	if !a.names[name] {
		return false
	}
	delete(a.names, name)
	return true
}

// Has reports whether name is still active.
func (a *ActiveSet) Has(name string) bool {
	return a.names[name]
}

// Len returns the number of active names.
func (a *ActiveSet) Len() int {
	return len(a.names)
}

// Names returns the active names in ascending order.
func (a *ActiveSet) Names() []string {
	out := make([]string, 0, len(a.names))
	for n := range a.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (a *ActiveSet) Clone() *ActiveSet {
	return NewActiveSet(a.names)
}

// match removes every active name contained in text and records it in used.
func (a *ActiveSet) match(text string, used map[string]bool) {
	for n := range a.names {
		if containsName(text, n) {
			delete(a.names, n)
			used[n] = true
		}
	}
}
