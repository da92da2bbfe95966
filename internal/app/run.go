package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/builder"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/localexecutor"
	"github.com/vk/pycheckgo/internal/testagg"
	"github.com/vk/pycheckgo/internal/walker"
)

// Check evaluates the selected targets for every requested version and
// executes the resulting action graph.
func (a *App) Check(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	w, _, err := a.evaluate(ctx, false)
	if err != nil {
		return err
	}
	return a.execute(ctx, w.Actions())
}

// Test evaluates the selected test targets, describes one verification
// action per test target over its transitively reachable reports, and
// executes the resulting graph.
func (a *App) Test(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	w, targets, err := a.evaluate(ctx, true)
	if err != nil {
		return err
	}

	agg := &testagg.Aggregator{
		Walker:    w,
		Workspace: a.model.Workspace,
		OutDir:    a.config.OutDir,
	}
	for _, lbl := range targets {
		if _, err := agg.Describe(ctx, lbl, a.versions()); err != nil {
			return err
		}
	}
	return a.execute(ctx, w.Actions())
}

// DumpActions evaluates the selected targets and writes the described
// action graph to w without executing anything.
func (a *App) DumpActions(ctx context.Context, w io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	wk, _, err := a.evaluate(ctx, false)
	if err != nil {
		return err
	}
	return wk.Actions().Dump(w)
}

// evaluate validates the target graph and walks every selected target at
// every requested version, returning the populated walker and selection.
func (a *App) evaluate(ctx context.Context, testOnly bool) (*walker.Walker, []label.Label, error) {
	g, err := builder.Build(ctx, a.model, a.versions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build target graph: %w", err)
	}

	targets, err := a.selectTargets(g, testOnly)
	if err != nil {
		return nil, nil, err
	}
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("no matching targets to evaluate")
	}

	w := walker.New(a.model, a.config.OutDir, action.NewGraph())
	for _, version := range g.Versions {
		for _, lbl := range targets {
			if _, err := w.Visit(ctx, lbl, version); err != nil {
				return nil, nil, err
			}
		}
	}
	a.logger.Debug("Walk complete.",
		"targets", len(targets),
		"versions", g.Versions,
		"actions", w.Actions().Len(),
	)
	return w, targets, nil
}

// selectTargets resolves the configured target selection against the
// model, in stable evaluation order.
func (a *App) selectTargets(g *builder.Graph, testOnly bool) ([]label.Label, error) {
	isTest := func(t *config.Target) bool {
		return t.Kind == config.KindTest || t.Kind == config.KindWrappedTest
	}

	if len(a.config.Targets) > 0 {
		out := make([]label.Label, 0, len(a.config.Targets))
		for _, s := range a.config.Targets {
			lbl, err := label.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("bad target %q: %w", s, err)
			}
			t, ok := a.model.Target(lbl)
			if !ok {
				return nil, fmt.Errorf("unknown target %s", lbl)
			}
			if testOnly && !isTest(t) {
				return nil, fmt.Errorf("target %s is a %s, not a test", lbl, t.Kind)
			}
			out = append(out, lbl)
		}
		return out, nil
	}

	order, err := g.EvalOrder()
	if err != nil {
		return nil, err
	}
	var out []label.Label
	for _, key := range order {
		t := a.model.Targets[key]
		if testOnly && !isTest(t) {
			continue
		}
		if !testOnly && !t.Kind.Checkable() {
			continue
		}
		out = append(out, t.Label)
	}
	return out, nil
}

// execute hands the declared graph to the local executor.
func (a *App) execute(ctx context.Context, g *action.Graph) error {
	exec := localexecutor.New(localexecutor.Options{
		Workers: a.config.WorkerCount,
		DryRun:  a.config.DryRun,
		OutDir:  a.config.OutDir,
	})
	if err := exec.Execute(ctx, g); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

// versions returns the requested language versions, falling back to the
// workspace default.
func (a *App) versions() []string {
	if len(a.config.Versions) > 0 {
		return a.config.Versions
	}
	return []string{a.model.Workspace.DefaultVersion}
}
