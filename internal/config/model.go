package config

import "github.com/vk/pycheckgo/internal/label"

// LegacyVersion is the baseline language version. It never participates
// in native compilation and is checked without a version flag.
const LegacyVersion = "2"

// Kind tags the closed set of rule kinds the walker understands. Build
// files may declare other kinds; the walker contributes the empty state
// for them instead of failing.
type Kind string

const (
	KindLibrary     Kind = "py_library"
	KindBinary      Kind = "py_binary"
	KindTest        Kind = "py_test"
	KindWrappedTest Kind = "py_wrapped_test"
	KindFilegroup   Kind = "filegroup"
)

// Checkable reports whether the walker descends into targets of this kind.
func (k Kind) Checkable() bool {
	switch k {
	case KindLibrary, KindBinary, KindTest, KindWrappedTest:
		return true
	}
	return false
}

// Target is the format-agnostic representation of one declared build
// target. Exactly the fields each kind needs are populated; everything
// else stays zero.
type Target struct {
	Label label.Label
	Kind  Kind

	// Srcs are this target's own plain sources, workspace-relative.
	Srcs []string
	// Stubs are this target's own type-stub sources. A stub whose name is
	// a plain source name plus the stub suffix overrides that source.
	Stubs []string
	// Deps are the declared direct dependencies.
	Deps []label.Label
	// Actual is the single designated dependency of a wrapped test. Nil
	// for every other kind.
	Actual *label.Label

	// Compile opts this target into native compilation.
	Compile bool
	// SrcRoot is the import root this target's sources hang off. Empty
	// means the workspace root.
	SrcRoot string
	// External marks a bundled stub-only tree with no resolvable source
	// targets behind it (e.g. vendored third-party stubs).
	External bool
}

// EffectiveDeps returns the dependency list the walker merges over. A
// wrapped test's single designated target is rewritten into a one-element
// dependency list so the merge path stays uniform across kinds.
func (t *Target) EffectiveDeps() []label.Label {
	if t.Actual != nil {
		return []label.Label{*t.Actual}
	}
	return t.Deps
}

// Workspace holds the build-wide settings every invocation shares.
type Workspace struct {
	// Interpreter is the Python interpreter reference handed to the
	// checker. Mandatory; its absence is a construction-time error.
	Interpreter string
	// Checker is the type-check wrapper program.
	Checker string
	// NativeCodegen is the tool emitting a group's C translation unit.
	NativeCodegen string
	// NativeCC is the C compiler driver for group and shim compilation.
	NativeCC string
	// Verifier is the report verification program.
	Verifier string
	// Plugins are fixed plugin/config artifacts added to every type-check
	// invocation's inputs.
	Plugins []string
	// ExtraRoot is the one externally supplied package root, applied at
	// invocation time and never propagated between nodes.
	ExtraRoot string
	// DefaultVersion is the version checked when the CLI requests none.
	DefaultVersion string
	// Versions is the set of language versions the workspace supports.
	Versions []string
}

// Model is the unified representation of the loaded build configuration.
type Model struct {
	Workspace Workspace
	// Targets is keyed by canonical label string.
	Targets map[string]*Target
	// Order lists target labels in declaration order, which keeps
	// whole-graph evaluation deterministic.
	Order []string
}

// Target looks a target up by label.
func (m *Model) Target(l label.Label) (*Target, bool) {
	t, ok := m.Targets[l.String()]
	return t, ok
}
