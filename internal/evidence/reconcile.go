package evidence

import (
	"sort"

	"deadsym/internal/grouping"
	"deadsym/internal/symbols"
)

// Verdict is the final used/unused split of a universe.
// For every universe entry exactly one of Used and Unused holds it.
type Verdict struct {
	Used   []symbols.Ref
	Unused []symbols.Ref
	// Sources lists, per used name, the sources that proved it used.
	Sources map[string][]string
	// Consulted lists every source that took part, in argument order.
	Consulted []string

	usedNames map[string]bool
}

// Reconcile merges evidence into a verdict over u. Group keys found in any
// used set are expanded to their members; a key that is itself a universe
// name is kept as well. Unused is the universe minus the merged used set.
func Reconcile(u *symbols.Universe, g *grouping.Groups, evidence ...Evidence) *Verdict {
	if g == nil {
		g = grouping.Empty()
	}
	v := &Verdict{
		Sources:   make(map[string][]string),
		usedNames: make(map[string]bool),
	}

	for _, e := range evidence {
		v.Consulted = appendUnique(v.Consulted, e.Source)
		for name := range g.Expand(e.Used, u) {
			if !u.Contains(name) {
				continue
			}
			v.usedNames[name] = true
			v.Sources[name] = appendUnique(v.Sources[name], e.Source)
		}
	}
	for name := range v.Sources {
		sort.Strings(v.Sources[name])
	}

	for _, ref := range u.Refs() {
		if v.usedNames[ref.Name] {
			v.Used = append(v.Used, ref)
		} else {
			v.Unused = append(v.Unused, ref)
		}
	}
	return v
}

// IsUsed reports whether name was proved used by any source.
func (v *Verdict) IsUsed(name string) bool {
	return v.usedNames[name]
}

// UsedIn returns the used names of one category, sorted.
func (v *Verdict) UsedIn(category string) []string {
	return namesIn(v.Used, category)
}

// UnusedIn returns the unused names of one category, sorted.
func (v *Verdict) UnusedIn(category string) []string {
	return namesIn(v.Unused, category)
}

// UnusedNames returns every distinct unused name, sorted.
func (v *Verdict) UnusedNames() []string {
	set := make(map[string]bool, len(v.Unused))
	for _, r := range v.Unused {
		set[r.Name] = true
	}
	return sortedKeys(set)
}

func namesIn(refs []symbols.Ref, category string) []string {
	var out []string
	for _, r := range refs {
		if r.Category == category {
			out = append(out, r.Name)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
