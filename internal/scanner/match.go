package scanner

import "strings"

// containsName is plain substring containment with no token boundaries.
// A collision can only make a name look used.
func containsName(text, name string) bool {
	return name != "" && strings.Contains(text, name)
}
