package check

import (
	"strings"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/native"
	"github.com/vk/pycheckgo/internal/state"
)

// Mnemonic tags every type-check action.
const Mnemonic = "PyTypeCheck"

// Request carries everything one type-check invocation needs. The state
// is the node's full merged state: the checker runs incrementally against
// every transitively reachable source, reusing cache artifacts supplied
// by dependencies instead of recomputing them.
type Request struct {
	Workspace config.Workspace
	Label     label.Label
	Version   string
	Legacy    bool
	State     state.Node

	// Report is the one report artifact this invocation produces.
	Report string
	// OwnCacheOuts are the cache artifacts declared for this node's own
	// sources; they are outputs here and inputs downstream.
	OwnCacheOuts []string
	// IROuts are the compiler-internal ir artifacts, empty unless native
	// compilation is active for this node.
	IROuts []string
	// Groups holds every transitively reachable compilation group when
	// native compilation is active; nil otherwise.
	Groups []state.Group
	// JUnitRoot is the root directory for compiled-run junit output,
	// only used alongside Groups.
	JUnitRoot string
}

// Build assembles the described checker action. The command line layout
// is fixed:
//
//	[--mypyc GROUPSPEC(;GROUPSPEC)* JUNIT_ROOT]
//	--bazel [--python-version V] (--package-root R)*
//	--no-error-summary --incremental --junit-xml PATH
//	--cache-map (SRC OUT...)* -- SRC*
func Build(req Request) *action.Action {
	argv := []string{req.Workspace.Checker}

	if len(req.Groups) > 0 {
		specs := make([]string, len(req.Groups))
		for i, g := range req.Groups {
			specs[i] = native.FormatGroup(g)
		}
		argv = append(argv, "--mypyc", strings.Join(specs, ";"), req.JUnitRoot)
	}

	argv = append(argv, "--bazel")
	if !req.Legacy {
		argv = append(argv, "--python-version", req.Version)
	}
	for _, root := range req.State.Roots.Items() {
		argv = append(argv, "--package-root", root)
	}
	argv = append(argv, "--no-error-summary", "--incremental", "--junit-xml", req.Report)

	argv = append(argv, "--cache-map")
	for _, e := range req.State.Cache.Entries() {
		argv = append(argv, e.Src)
		argv = append(argv, e.Outs...)
	}

	argv = append(argv, "--")
	srcs := req.State.Srcs.Paths()
	argv = append(argv, srcs...)

	outputs := append([]string{req.Report}, req.OwnCacheOuts...)
	outputs = append(outputs, req.IROuts...)

	return &action.Action{
		Mnemonic: Mnemonic,
		Label:    req.Label.String(),
		Argv:     argv,
		Inputs:   inputs(req, srcs),
		Outputs:  outputs,
	}
}

// inputs collects what the invocation reads: every transitive source, the
// fixed plugin/config artifacts, the interpreter reference, and every
// cache artifact supplied by dependencies. The node's own cache artifacts
// are outputs, so they are filtered back out.
func inputs(req Request, srcs []string) []string {
	own := make(map[string]struct{}, len(req.OwnCacheOuts))
	for _, o := range req.OwnCacheOuts {
		own[o] = struct{}{}
	}

	in := make([]string, 0, len(srcs)+len(req.Workspace.Plugins)+1)
	in = append(in, srcs...)
	in = append(in, req.Workspace.Plugins...)
	in = append(in, req.Workspace.Interpreter)
	for _, e := range req.State.Cache.Entries() {
		for _, out := range e.Outs {
			if _, ok := own[out]; ok {
				continue
			}
			in = append(in, out)
		}
	}
	return in
}
