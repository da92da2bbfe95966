package walker

import (
	"strings"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/state"
)

// Stub sources carry the plain source suffix plus a trailing "i"; a stub
// and its same-named plain source are one source identity, and the stub
// wins.
const (
	sourceSuffix = ".py"
	stubSuffix   = ".pyi"
)

// analyze resolves one target's own contribution: stub-overridden sources
// and the package roots its sources hang off.
func analyze(t *config.Target) ([]state.Source, []string) {
	overridden := make(map[string]struct{}, len(t.Stubs))
	for _, stub := range t.Stubs {
		if !strings.HasSuffix(stub, stubSuffix) {
			continue
		}
		if base := strings.TrimSuffix(stub, "i"); strings.HasSuffix(base, sourceSuffix) {
			overridden[base] = struct{}{}
		}
	}

	srcs := make([]state.Source, 0, len(t.Srcs)+len(t.Stubs))
	for _, src := range t.Srcs {
		if _, ok := overridden[src]; ok {
			continue
		}
		srcs = append(srcs, state.Source{Path: src, Root: t.SrcRoot})
	}
	for _, stub := range t.Stubs {
		srcs = append(srcs, state.Source{Path: stub, Root: t.SrcRoot})
	}

	return srcs, packageRoots(t)
}

// packageRoots computes the import roots this target contributes. For a
// normal target every own source contributes its root. An external target
// is a bundled stub tree with no source targets behind it; its roots are
// synthesized from version-numbered directory layouts such as
// "typestubs/3/six.pyi".
func packageRoots(t *config.Target) []string {
	if t.External {
		var roots []string
		for _, stub := range t.Stubs {
			if root, ok := digitRoot(stub); ok {
				roots = append(roots, root)
			}
		}
		return roots
	}

	if len(t.Srcs) == 0 && len(t.Stubs) == 0 {
		return nil
	}
	root := t.SrcRoot
	if root == "" {
		root = "."
	}
	return []string{root}
}

// digitRoot walks a path segment by segment and returns the prefix ending
// at the first segment that starts with a digit.
func digitRoot(path string) (string, bool) {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if seg != "" && seg[0] >= '0' && seg[0] <= '9' {
			return strings.Join(segs[:i+1], "/"), true
		}
	}
	return "", false
}
