package util

import "sort"

// OrderedKeys returns the keys of m sorted ascending, for deterministic
// output from maps whose iteration order is not otherwise meaningful.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
