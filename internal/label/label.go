// Package label defines target labels, the canonical identity of a node in
// the build graph. A label has the form "pkg/path:name"; the package part
// may be empty for root-level targets.
package label

import (
	"fmt"
	"strings"
)

// Label identifies one target in the build graph.
type Label struct {
	// Pkg is the slash-separated package path, without leading or trailing
	// slashes. Empty for targets declared at the build root.
	Pkg string
	// Name is the target name within the package.
	Name string
}

// Parse converts "pkg/path:name" into a Label. A label without a colon is
// treated as a package whose target name equals the last path segment,
// mirroring the common shorthand "a/b" == "a/b:b".
func Parse(s string) (Label, error) {
	s = strings.TrimPrefix(s, "//")
	if s == "" {
		return Label{}, fmt.Errorf("empty label")
	}
	if strings.Contains(s, " ") {
		return Label{}, fmt.Errorf("label %q contains whitespace", s)
	}
	pkg, name, found := strings.Cut(s, ":")
	if !found {
		segs := strings.Split(pkg, "/")
		name = segs[len(segs)-1]
	}
	if name == "" {
		return Label{}, fmt.Errorf("label %q has an empty target name", s)
	}
	if strings.Contains(name, "/") {
		return Label{}, fmt.Errorf("label %q has a slash in its target name", s)
	}
	return Label{Pkg: strings.Trim(pkg, "/"), Name: name}, nil
}

// MustParse is Parse for labels known to be valid at compile time. It is
// intended for tests and panics on malformed input.
func MustParse(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the canonical "pkg/path:name" form.
func (l Label) String() string {
	if l.Pkg == "" {
		return ":" + l.Name
	}
	return l.Pkg + ":" + l.Name
}

// GroupName derives the native compilation group name for this label:
// every path separator collapses into a dot, producing a single joined
// dotted identifier ("tools/speed:fast" -> "tools.speed.fast").
func (l Label) GroupName() string {
	joined := l.String()
	joined = strings.ReplaceAll(joined, "/", ".")
	joined = strings.ReplaceAll(joined, ":", ".")
	return strings.Trim(joined, ".")
}
