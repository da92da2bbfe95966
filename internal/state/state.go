// Package state defines the immutable value propagated along build-graph
// edges. A node's state is a pure function of its own declared sources and
// the merged states of its direct dependencies; every field merges as an
// order-independent union except the cache map, which keeps per-contributor
// append order while staying duplicate-free by source path.
package state

// Source is one source file identity: a workspace-relative path plus the
// import root its tree hangs off. Two sources with equal paths are the
// same identity regardless of root.
type Source struct {
	Path string
	Root string
}

// Group names one native compilation unit and the source paths compiled
// into it. Groups are deduplicated by name.
type Group struct {
	Name string
	Srcs []string
}

// CacheEntry pairs one source with the cache artifacts declared for it.
// The outputs stay adjacent to their source when the map is serialized.
type CacheEntry struct {
	Src  string
	Outs []string
}

// CacheMap is an append-ordered sequence of cache entries, duplicate-free
// by source path. Insertion order is a correctness requirement for the
// type-check invocation consuming it, not cosmetic.
type CacheMap struct {
	entries []CacheEntry
	seen    map[string]struct{}
}

// NewCacheMap builds a cache map from entries, keeping first-seen order.
func NewCacheMap(entries ...CacheEntry) CacheMap {
	return CacheMap{}.Append(entries...)
}

// Len returns the number of distinct entries.
func (m CacheMap) Len() int { return len(m.entries) }

// Entries returns the entries in append order as a fresh slice.
func (m CacheMap) Entries() []CacheEntry {
	out := make([]CacheEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Append returns a new map extended with entries, skipping sources already
// present.
func (m CacheMap) Append(entries ...CacheEntry) CacheMap {
	next := CacheMap{
		entries: make([]CacheEntry, len(m.entries), len(m.entries)+len(entries)),
		seen:    make(map[string]struct{}, len(m.entries)+len(entries)),
	}
	copy(next.entries, m.entries)
	for _, e := range m.entries {
		next.seen[e.Src] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := next.seen[e.Src]; ok {
			continue
		}
		next.seen[e.Src] = struct{}{}
		next.entries = append(next.entries, e)
	}
	return next
}

// Union returns a new map with other's entries appended after this map's.
func (m CacheMap) Union(other CacheMap) CacheMap {
	return m.Append(other.entries...)
}

// NativeContext is the merged native compilation context threaded into a
// group's compile step so generated code can include upstream group
// headers. Merging is a duplicate-tolerant union.
type NativeContext struct {
	Includes StringSet
	Libs     StringSet
}

// Merge unions two native contexts. Either side may be nil; nil means the
// contributor produced no native artifacts.
func (c *NativeContext) Merge(other *NativeContext) *NativeContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	return &NativeContext{
		Includes: c.Includes.Union(other.Includes),
		Libs:     c.Libs.Union(other.Libs),
	}
}

// Node is the transitive state computed for one build node at one target
// language version. It is write-once: Merge and the walker's constructors
// produce new values, never mutate received ones.
type Node struct {
	// Srcs is the deduplicated own-plus-transitive source set, with stub
	// overrides already resolved.
	Srcs SourceSet
	// Roots is the set of directories the checker treats as import roots.
	Roots StringSet
	// Outputs is every declared generated artifact (cache files, reports)
	// this node and its ancestors will produce.
	Outputs StringSet
	// Cache maps each source to its declared cache artifacts.
	Cache CacheMap
	// Reports is the set of produced verification-report artifacts.
	Reports StringSet
	// Groups is the set of native compilation groups reachable from here.
	Groups GroupSet
	// Extensions is the set of produced native extension artifacts.
	Extensions StringSet
	// Native is the merged native compilation context, or nil.
	Native *NativeContext
}

// Empty returns the zero state contributed by unsupported node kinds.
func Empty() Node { return Node{} }

// Merge returns the union of two node states. The operation is idempotent,
// associative and commutative on every set field, so the walker's fold is
// independent of visitation order.
func (n Node) Merge(other Node) Node {
	return Node{
		Srcs:       n.Srcs.Union(other.Srcs),
		Roots:      n.Roots.Union(other.Roots),
		Outputs:    n.Outputs.Union(other.Outputs),
		Cache:      n.Cache.Union(other.Cache),
		Reports:    n.Reports.Union(other.Reports),
		Groups:     n.Groups.Union(other.Groups),
		Extensions: n.Extensions.Union(other.Extensions),
		Native:     n.Native.Merge(other.Native),
	}
}
