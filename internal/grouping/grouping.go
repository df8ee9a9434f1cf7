// Package grouping clusters numbered name variants (spin_1, spin_2, ...) so
// that a single reference to the base name accounts for the whole family.
package grouping

import (
	"regexp"
	"sort"

	"deadsym/internal/symbols"
)

var numberedName = regexp.MustCompile(`^(.*)_(\d+)$`)

// MinMembers is the smallest family that forms a group.
const MinMembers = 2

// Groups maps group keys to their members and back.
// Membership is fixed once Build returns.
type Groups struct {
	Members map[string]map[string]bool
	KeyOf   map[string]string
}

// Empty returns a Groups with no groups, used when grouping is disabled.
func Empty() *Groups {
	return &Groups{
		Members: make(map[string]map[string]bool),
		KeyOf:   make(map[string]string),
	}
}

// Base splits a numbered name into its base. ok is false for names that do
// not end in _<digits> or whose base would be empty.
func Base(name string) (base string, ok bool) {
	m := numberedName.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Build finds the numbered families of every category of u.
// Names sharing a base across categories join the same group.
func Build(u *symbols.Universe) *Groups {
	g := Empty()
	if u == nil {
		return g
	}

	buckets := make(map[string]map[string]bool)
	for _, cat := range u.Categories() {
		candidates := make(map[string][]string)
		for _, name := range u.Category(cat) {
			if base, ok := Base(name); ok {
				candidates[base] = append(candidates[base], name)
			}
		}
		for base, names := range candidates {
			if len(names) < MinMembers {
				continue
			}
			if buckets[base] == nil {
				buckets[base] = make(map[string]bool)
			}
			for _, n := range names {
				buckets[base][n] = true
			}
		}
	}

	for key, members := range buckets {
		g.Members[key] = members
		for m := range members {
			g.KeyOf[m] = key
		}
	}
	return g
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.Members)
}

// Keys returns the group keys in ascending order.
func (g *Groups) Keys() []string {
	keys := make([]string, 0, len(g.Members))
	for k := range g.Members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MembersOf returns the sorted members of key, or nil when key is not a group.
func (g *Groups) MembersOf(key string) []string {
	members, ok := g.Members[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// IsKey reports whether name is a group key.
func (g *Groups) IsKey(name string) bool {
	_, ok := g.Members[name]
	return ok
}

// Expand returns names with every group key replaced by its members.
// A key that is also a universe name stays in the result.
func (g *Groups) Expand(names map[string]bool, u *symbols.Universe) map[string]bool {
	out := make(map[string]bool, len(names))
	for n := range names {
		members, ok := g.Members[n]
		if !ok {
			out[n] = true
			continue
		}
		for m := range members {
			out[m] = true
		}
		if u != nil && u.Contains(n) {
			out[n] = true
		}
	}
	return out
}

// BuildActiveSet returns the names a scan must look for: the universe with
// every group member replaced by its group key.
func BuildActiveSet(u *symbols.Universe, g *Groups) map[string]bool {
	active := make(map[string]bool)
	if u == nil {
		return active
	}
	for _, name := range u.Names() {
		if g != nil {
			if _, member := g.KeyOf[name]; member {
				continue
			}
		}
		active[name] = true
	}
	if g != nil {
		for key := range g.Members {
			active[key] = true
		}
	}
	return active
}
