package state

// StringSet is an insertion-ordered, duplicate-free collection of strings.
// All mutating operations return a fresh set; existing values are never
// modified, which is what makes merge results independent of traversal
// order.
type StringSet struct {
	order []string
	seen  map[string]struct{}
}

// NewStringSet builds a set from items, keeping first-seen order.
func NewStringSet(items ...string) StringSet {
	return StringSet{}.Add(items...)
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct items.
func (s StringSet) Len() int { return len(s.order) }

// Items returns the set contents in insertion order. The returned slice is
// a copy and safe for the caller to retain.
func (s StringSet) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Add returns a new set extended with items, skipping duplicates.
func (s StringSet) Add(items ...string) StringSet {
	next := StringSet{
		order: make([]string, len(s.order), len(s.order)+len(items)),
		seen:  make(map[string]struct{}, len(s.order)+len(items)),
	}
	copy(next.order, s.order)
	for _, v := range s.order {
		next.seen[v] = struct{}{}
	}
	for _, v := range items {
		if _, ok := next.seen[v]; ok {
			continue
		}
		next.seen[v] = struct{}{}
		next.order = append(next.order, v)
	}
	return next
}

// Union returns a new set containing this set's items followed by any
// items of other not already present.
func (s StringSet) Union(other StringSet) StringSet {
	return s.Add(other.order...)
}

// SourceSet is an insertion-ordered set of sources, deduplicated by path.
type SourceSet struct {
	order []Source
	seen  map[string]struct{}
}

// NewSourceSet builds a source set, keeping first-seen order per path.
func NewSourceSet(items ...Source) SourceSet {
	return SourceSet{}.Add(items...)
}

// Has reports whether a source with the given path is present.
func (s SourceSet) Has(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Len returns the number of distinct sources.
func (s SourceSet) Len() int { return len(s.order) }

// Items returns the sources in insertion order as a fresh slice.
func (s SourceSet) Items() []Source {
	out := make([]Source, len(s.order))
	copy(out, s.order)
	return out
}

// Paths returns just the source paths in insertion order.
func (s SourceSet) Paths() []string {
	out := make([]string, len(s.order))
	for i, src := range s.order {
		out[i] = src.Path
	}
	return out
}

// Add returns a new set extended with items, skipping paths already seen.
func (s SourceSet) Add(items ...Source) SourceSet {
	next := SourceSet{
		order: make([]Source, len(s.order), len(s.order)+len(items)),
		seen:  make(map[string]struct{}, len(s.order)+len(items)),
	}
	copy(next.order, s.order)
	for _, v := range s.order {
		next.seen[v.Path] = struct{}{}
	}
	for _, v := range items {
		if _, ok := next.seen[v.Path]; ok {
			continue
		}
		next.seen[v.Path] = struct{}{}
		next.order = append(next.order, v)
	}
	return next
}

// Union returns a new set with other's sources appended after this set's.
func (s SourceSet) Union(other SourceSet) SourceSet {
	return s.Add(other.order...)
}

// GroupSet is an insertion-ordered set of compilation groups, deduplicated
// by group name.
type GroupSet struct {
	order []Group
	seen  map[string]struct{}
}

// NewGroupSet builds a group set, keeping first-seen order per name.
func NewGroupSet(items ...Group) GroupSet {
	return GroupSet{}.Add(items...)
}

// Len returns the number of distinct groups.
func (s GroupSet) Len() int { return len(s.order) }

// Items returns the groups in insertion order as a fresh slice.
func (s GroupSet) Items() []Group {
	out := make([]Group, len(s.order))
	copy(out, s.order)
	return out
}

// Add returns a new set extended with items, skipping names already seen.
func (s GroupSet) Add(items ...Group) GroupSet {
	next := GroupSet{
		order: make([]Group, len(s.order), len(s.order)+len(items)),
		seen:  make(map[string]struct{}, len(s.order)+len(items)),
	}
	copy(next.order, s.order)
	for _, v := range s.order {
		next.seen[v.Name] = struct{}{}
	}
	for _, v := range items {
		if _, ok := next.seen[v.Name]; ok {
			continue
		}
		next.seen[v.Name] = struct{}{}
		next.order = append(next.order, v)
	}
	return next
}

// Union returns a new set with other's groups appended after this set's.
func (s GroupSet) Union(other GroupSet) GroupSet {
	return s.Add(other.order...)
}
