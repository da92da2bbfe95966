// Package builder turns a loaded configuration model into a validated
// target graph. Every configuration error described here is fatal before
// any action is scheduled; type errors in the checked code never are.
package builder

import (
	"context"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
)

// Graph is the validated target graph for one evaluation.
type Graph struct {
	Model    *config.Model
	Versions []string

	dag graph.Graph[string, string]
}

// Build validates the model against the requested language versions and
// constructs the dependency graph. It fails on: a missing interpreter
// reference, a version outside the workspace's supported set, a wrapped
// test declaring both an actual target and a dependency list, native
// compilation requested when only the legacy version is being evaluated,
// unknown dependency labels, and dependency cycles.
func Build(ctx context.Context, model *config.Model, versions []string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting target graph construction.", "targets", len(model.Targets))

	if model.Workspace.Interpreter == "" {
		return nil, fmt.Errorf("workspace is missing the mandatory interpreter reference")
	}
	if len(versions) == 0 {
		versions = []string{model.Workspace.DefaultVersion}
	}
	for _, v := range versions {
		if !slices.Contains(model.Workspace.Versions, v) {
			return nil, fmt.Errorf("version %q is not supported by this workspace (supported: %v)", v, model.Workspace.Versions)
		}
	}
	legacyOnly := len(versions) == 1 && versions[0] == config.LegacyVersion

	dag := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, key := range model.Order {
		if err := dag.AddVertex(key); err != nil {
			return nil, fmt.Errorf("failed to add target %s: %w", key, err)
		}
	}

	for _, key := range model.Order {
		t := model.Targets[key]

		if t.Kind == config.KindWrappedTest && len(t.Deps) > 0 {
			return nil, fmt.Errorf("target %s: a wrapped test takes a single actual target, not a dependency list", key)
		}
		if t.Compile && legacyOnly {
			return nil, fmt.Errorf("target %s requests native compilation, which the legacy version %s does not support", key, config.LegacyVersion)
		}

		for _, dep := range t.EffectiveDeps() {
			depKey := dep.String()
			if _, ok := model.Targets[depKey]; !ok {
				return nil, fmt.Errorf("target %s depends on unknown target %s", key, depKey)
			}
			err := dag.AddEdge(depKey, key)
			switch {
			case err == nil:
			case err == graph.ErrEdgeAlreadyExists:
				// A dep listed twice is harmless.
			case err == graph.ErrEdgeCreatesCycle:
				return nil, fmt.Errorf("dependency cycle through %s -> %s", depKey, key)
			default:
				return nil, fmt.Errorf("failed to add edge %s -> %s: %w", depKey, key, err)
			}
		}
	}

	logger.Debug("Build: target graph construction successful.")
	return &Graph{Model: model, Versions: versions, dag: dag}, nil
}

// EvalOrder returns every target label in a stable dependency-first order.
// The walker's memoization makes evaluation order-insensitive, but a
// stable order keeps logs and action dumps deterministic.
func (g *Graph) EvalOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(g.dag, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("failed to order target graph: %w", err)
	}
	return order, nil
}
