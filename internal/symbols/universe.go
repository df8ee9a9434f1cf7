package symbols

import "sort"

// Ref identifies a name inside one category.
type Ref struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Universe is the set of distinct normalized names found in one run,
// partitioned by category.
type Universe struct {
	byCategory map[string]map[string]bool
}

// NewUniverse returns an empty universe.
func NewUniverse() *Universe {
	return &Universe{byCategory: make(map[string]map[string]bool)}
}

// Add inserts name under category and reports whether it was new.
func (u *Universe) Add(category, name string) bool {
	if name == "" {
		return false
	}
	names, ok := u.byCategory[category]
	if !ok {
		names = make(map[string]bool)
		u.byCategory[category] = names
	}
	if names[name] {
		return false
	}
	names[name] = true
	return true
}

// AddSymbol inserts the normalized form of s.
func (u *Universe) AddSymbol(s Symbol) bool {
	return u.Add(s.Category, s.Normalized)
}

// Has reports whether name exists under category.
func (u *Universe) Has(category, name string) bool {
	return u.byCategory[category][name]
}

// Contains reports whether name exists under any category.
func (u *Universe) Contains(name string) bool {
	for _, names := range u.byCategory {
		if names[name] {
			return true
		}
	}
	return false
}

// Len returns the number of (category, name) entries.
func (u *Universe) Len() int {
	n := 0
	for _, names := range u.byCategory {
		n += len(names)
	}
	return n
}

// Categories returns the category tags in ascending order.
func (u *Universe) Categories() []string {
	cats := make([]string, 0, len(u.byCategory))
	for c, names := range u.byCategory {
		if len(names) > 0 {
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)
	return cats
}

// Category returns the names of one category in ascending order.
func (u *Universe) Category(category string) []string {
	names := make([]string, 0, len(u.byCategory[category]))
	for n := range u.byCategory[category] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Names returns every distinct name across all categories, sorted.
func (u *Universe) Names() []string {
	set := make(map[string]bool)
	for _, names := range u.byCategory {
		for n := range names {
			set[n] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Refs returns every entry ordered by category then name.
func (u *Universe) Refs() []Ref {
	refs := make([]Ref, 0, u.Len())
	for _, c := range u.Categories() {
		for _, n := range u.Category(c) {
			refs = append(refs, Ref{Category: c, Name: n})
		}
	}
	return refs
}

// Merge adds every entry of other into u.
func (u *Universe) Merge(other *Universe) {
	if other == nil {
		return
	}
	for c, names := range other.byCategory {
		for n := range names {
			u.Add(c, n)
		}
	}
}
