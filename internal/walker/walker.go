// Package walker implements the graph-propagation engine: a memoized fold
// over the target graph that computes each node's immutable transitive
// state exactly once per node and version, and describes the deferred
// actions (type-check invocations, native compile/link steps) whose
// outputs downstream nodes consume.
package walker

import (
	"context"
	"fmt"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/check"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/native"
	"github.com/vk/pycheckgo/internal/state"
)

// Walker evaluates node states against one loaded model, accumulating
// described actions into its action graph. It memoizes per node and
// version: visiting the same node twice via different paths never re-runs
// analysis or double-declares outputs.
//
// A Walker performs a pure single-goroutine fold; it is not safe for
// concurrent use. Parallelism belongs to the executor consuming the
// declared actions, not to the analysis pass.
type Walker struct {
	model   *config.Model
	outDir  string
	actions *action.Graph

	memo map[memoKey]state.Node
}

type memoKey struct {
	label   string
	version string
}

// New creates a walker writing described actions into actions.
func New(model *config.Model, outDir string, actions *action.Graph) *Walker {
	return &Walker{
		model:   model,
		outDir:  outDir,
		actions: actions,
		memo:    make(map[memoKey]state.Node),
	}
}

// Actions returns the action graph the walker writes into.
func (w *Walker) Actions() *action.Graph { return w.actions }

// Visit returns the merged transitive state of one node at one target
// language version, computing it (and its dependencies' states) on first
// use.
func (w *Walker) Visit(ctx context.Context, lbl label.Label, version string) (state.Node, error) {
	k := memoKey{label: lbl.String(), version: version}
	if st, ok := w.memo[k]; ok {
		return st, nil
	}

	t, ok := w.model.Target(lbl)
	if !ok {
		return state.Node{}, fmt.Errorf("unknown target %s", lbl)
	}

	// Kinds outside the closed supported set contribute the empty state.
	// This is deliberate: heterogeneous graphs stay walkable without
	// special-casing unrelated rule kinds.
	if !t.Kind.Checkable() {
		st := state.Empty()
		w.memo[k] = st
		return st, nil
	}

	st, err := w.evaluate(ctx, t, version)
	if err != nil {
		return state.Node{}, err
	}
	w.memo[k] = st
	return st, nil
}

// evaluate folds the dependencies' states together and layers this node's
// own contribution and actions on top.
func (w *Walker) evaluate(ctx context.Context, t *config.Target, version string) (state.Node, error) {
	logger := ctxlog.FromContext(ctx)

	merged := state.Empty()
	for _, dep := range t.EffectiveDeps() {
		depState, err := w.Visit(ctx, dep, version)
		if err != nil {
			return state.Node{}, err
		}
		merged = merged.Merge(depState)
	}

	ownSrcs, ownRoots := analyze(t)
	st := merged
	st.Srcs = st.Srcs.Add(ownSrcs...)
	st.Roots = st.Roots.Add(ownRoots...)

	// A node with no transitively reachable sources is a complete no-op:
	// no outputs, no invocation.
	if st.Srcs.Len() == 0 {
		logger.Debug("Node has no transitive sources; skipping.", "label", t.Label, "version", version)
		return st, nil
	}

	compiled := t.Compile && version != config.LegacyVersion

	// Cache/output aggregation for this node's own sources.
	var ownCacheOuts, irOuts []string
	var entries []state.CacheEntry
	for _, src := range ownSrcs {
		outs := check.CacheArtifacts(w.outDir, src.Path, version)
		ownCacheOuts = append(ownCacheOuts, outs...)
		entries = append(entries, state.CacheEntry{Src: src.Path, Outs: outs})
		if compiled {
			irOuts = append(irOuts, check.IRArtifact(w.outDir, src.Path, version))
		}
	}
	st.Cache = st.Cache.Append(entries...)
	st.Outputs = st.Outputs.Add(ownCacheOuts...).Add(irOuts...)

	report := check.ReportPath(w.outDir, t.Label, version)
	st.Reports = st.Reports.Add(report)
	st.Outputs = st.Outputs.Add(report)

	if compiled {
		group := state.Group{Name: t.Label.GroupName(), Srcs: state.NewSourceSet(ownSrcs...).Paths()}
		st.Groups = st.Groups.Add(group)
	}

	req := check.Request{
		Workspace:    w.model.Workspace,
		Label:        t.Label,
		Version:      version,
		Legacy:       version == config.LegacyVersion,
		State:        w.withInvocationRoots(st),
		Report:       report,
		OwnCacheOuts: ownCacheOuts,
	}
	if compiled {
		req.IROuts = irOuts
		req.Groups = st.Groups.Items()
		req.JUnitRoot = w.outDir
	}
	if err := w.actions.Add(check.Build(req)); err != nil {
		return state.Node{}, err
	}

	if compiled {
		pipeline := &native.Pipeline{Workspace: w.model.Workspace, OutDir: w.outDir}
		res, err := pipeline.Describe(w.actions, t.Label, version, ownSrcs, st.Groups.Items(), irOuts, merged.Native)
		if err != nil {
			return state.Node{}, err
		}
		st.Extensions = st.Extensions.Add(res.Extensions...)
		st.Outputs = st.Outputs.Add(res.Extensions...)
		st.Native = st.Native.Merge(res.Context)
	}

	logger.Debug("Node evaluated.",
		"label", t.Label,
		"version", version,
		"srcs", st.Srcs.Len(),
		"outputs", st.Outputs.Len(),
	)
	return st, nil
}

// withInvocationRoots returns the state the invocation sees: the merged
// root set plus the one externally supplied extra root. The extra root is
// applied at invocation time only and never enters the propagated state,
// so memoized merges stay path-independent.
func (w *Walker) withInvocationRoots(st state.Node) state.Node {
	extra := w.model.Workspace.ExtraRoot
	if extra == "" {
		return st
	}
	st.Roots = st.Roots.Add(extra)
	return st
}
