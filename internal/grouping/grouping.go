// Package grouping partitions library entries into equivalence classes by
// canonical key.
package grouping

import (
	"slices"

	"mediadedup/internal/library"
)

// Group is a non-empty set of entries sharing one canonical key, in input order.
type Group struct {
	Key     string
	Entries []library.Entry
}

// Groups maps canonical keys to their groups.
type Groups struct {
	byKey map[string]*Group
}

// Build groups entries by the key keyFn computes for each. Every entry lands in
// exactly one group; the pass is linear in len(entries).
func Build(entries []library.Entry, keyFn func(library.Entry) string) Groups {
	byKey := make(map[string]*Group, len(entries))
	for _, e := range entries {
		key := keyFn(e)
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key}
			byKey[key] = g
		}
		g.Entries = append(g.Entries, e)
	}
	return Groups{byKey: byKey}
}

// Keys returns every key in lexicographic order.
func (g Groups) Keys() []string {
	keys := make([]string, 0, len(g.byKey))
	for k := range g.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the group for key.
func (g Groups) Get(key string) (Group, bool) {
	grp, ok := g.byKey[key]
	if !ok {
		return Group{}, false
	}
	return *grp, true
}

// Len returns the number of groups.
func (g Groups) Len() int {
	return len(g.byKey)
}

// Ordered returns every group in key order.
func (g Groups) Ordered() []Group {
	keys := g.Keys()
	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, *g.byKey[k])
	}
	return out
}

// Multi returns the groups with at least two members, in key order.
func (g Groups) Multi() []Group {
	var out []Group
	for _, grp := range g.Ordered() {
		if len(grp.Entries) > 1 {
			out = append(out, grp)
		}
	}
	return out
}
