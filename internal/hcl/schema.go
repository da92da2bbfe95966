package hcl

import "github.com/hashicorp/hcl/v2"

// --- Build file structures ---

// Target represents a `py_library`, `py_binary` or `py_test` block from a
// build file.
type Target struct {
	Label    string   `hcl:"label,label"`
	Srcs     []string `hcl:"srcs,optional"`
	Stubs    []string `hcl:"stubs,optional"`
	Deps     []string `hcl:"deps,optional"`
	Compile  bool     `hcl:"compile,optional"`
	SrcRoot  string   `hcl:"src_root,optional"`
	External bool     `hcl:"external,optional"`
}

// WrappedTest represents a `py_wrapped_test` block: a wrapper around a
// single designated target. Declaring both `actual` and `deps` is a shape
// error caught at graph construction, not here.
type WrappedTest struct {
	Label  string   `hcl:"label,label"`
	Actual string   `hcl:"actual"`
	Deps   []string `hcl:"deps,optional"`
}

// Filegroup represents a `filegroup` block. The walker does not descend
// into filegroups; they exist so build files can carry unrelated kinds.
type Filegroup struct {
	Label string   `hcl:"label,label"`
	Srcs  []string `hcl:"srcs,optional"`
}

// Workspace represents the single `workspace` block shared by the whole
// build. The versions attribute stays an expression so the loader can
// evaluate and type-check it explicitly.
type Workspace struct {
	Interpreter    string         `hcl:"interpreter"`
	Checker        string         `hcl:"checker,optional"`
	NativeCodegen  string         `hcl:"native_codegen,optional"`
	NativeCC       string         `hcl:"native_cc,optional"`
	Verifier       string         `hcl:"verifier,optional"`
	Plugins        []string       `hcl:"plugins,optional"`
	ExtraRoot      string         `hcl:"extra_root,optional"`
	DefaultVersion string         `hcl:"default_version,optional"`
	Versions       hcl.Expression `hcl:"versions,optional"`
}

// fileRoot is a struct used to decode all possible top-level blocks from
// any build file.
type fileRoot struct {
	Workspace  *Workspace     `hcl:"workspace,block"`
	Libraries  []*Target      `hcl:"py_library,block"`
	Binaries   []*Target      `hcl:"py_binary,block"`
	Tests      []*Target      `hcl:"py_test,block"`
	Wrapped    []*WrappedTest `hcl:"py_wrapped_test,block"`
	Filegroups []*Filegroup   `hcl:"filegroup,block"`
	Remain     hcl.Body       `hcl:",remain"`
}
