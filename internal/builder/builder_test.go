package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
)

func testModel(targets ...*config.Target) *config.Model {
	m := &config.Model{
		Workspace: config.Workspace{
			Interpreter:    "tools/python3",
			DefaultVersion: "3",
			Versions:       []string{"2", "3"},
		},
		Targets: make(map[string]*config.Target),
	}
	for _, t := range targets {
		key := t.Label.String()
		m.Targets[key] = t
		m.Order = append(m.Order, key)
	}
	return m
}

func lib(lbl string, deps ...string) *config.Target {
	t := &config.Target{Label: label.MustParse(lbl), Kind: config.KindLibrary}
	for _, d := range deps {
		t.Deps = append(t.Deps, label.MustParse(d))
	}
	return t
}

func TestBuildDefaultsToWorkspaceVersion(t *testing.T) {
	g, err := Build(context.Background(), testModel(lib("pkg:a")), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, g.Versions)
}

func TestBuildMissingInterpreter(t *testing.T) {
	m := testModel(lib("pkg:a"))
	m.Workspace.Interpreter = ""
	_, err := Build(context.Background(), m, nil)
	assert.ErrorContains(t, err, "interpreter")
}

func TestBuildUnsupportedVersion(t *testing.T) {
	_, err := Build(context.Background(), testModel(lib("pkg:a")), []string{"4"})
	assert.ErrorContains(t, err, `version "4" is not supported`)
}

func TestBuildWrappedTestWithDeps(t *testing.T) {
	actual := label.MustParse("pkg:impl")
	wrapped := &config.Target{
		Label:  label.MustParse("pkg:w"),
		Kind:   config.KindWrappedTest,
		Actual: &actual,
		Deps:   []label.Label{label.MustParse("pkg:other")},
	}
	m := testModel(lib("pkg:impl"), lib("pkg:other"), wrapped)
	_, err := Build(context.Background(), m, nil)
	assert.ErrorContains(t, err, "single actual target")
}

func TestBuildCompileOnLegacyOnly(t *testing.T) {
	compiled := lib("pkg:fast")
	compiled.Compile = true
	m := testModel(compiled)

	_, err := Build(context.Background(), m, []string{"2"})
	assert.ErrorContains(t, err, "native compilation")

	// Legacy alongside a non-legacy version is fine; the pipeline simply
	// stays off for the legacy pass.
	_, err = Build(context.Background(), m, []string{"2", "3"})
	assert.NoError(t, err)
}

func TestBuildUnknownDep(t *testing.T) {
	_, err := Build(context.Background(), testModel(lib("pkg:a", "pkg:missing")), nil)
	assert.ErrorContains(t, err, "unknown target pkg:missing")
}

func TestBuildCycle(t *testing.T) {
	m := testModel(
		lib("pkg:a", "pkg:b"),
		lib("pkg:b", "pkg:c"),
		lib("pkg:c", "pkg:a"),
	)
	_, err := Build(context.Background(), m, nil)
	assert.ErrorContains(t, err, "cycle")
}

func TestBuildDuplicateDepTolerated(t *testing.T) {
	m := testModel(lib("pkg:b"), lib("pkg:a", "pkg:b", "pkg:b"))
	_, err := Build(context.Background(), m, nil)
	assert.NoError(t, err)
}

func TestEvalOrderDepsFirst(t *testing.T) {
	m := testModel(
		lib("pkg:a", "pkg:b", "pkg:c"),
		lib("pkg:b", "pkg:d"),
		lib("pkg:c", "pkg:d"),
		lib("pkg:d"),
	)
	g, err := Build(context.Background(), m, nil)
	require.NoError(t, err)

	order, err := g.EvalOrder()
	require.NoError(t, err)
	require.Len(t, order, 4)

	pos := make(map[string]int, len(order))
	for i, key := range order {
		pos[key] = i
	}
	assert.Less(t, pos["pkg:d"], pos["pkg:b"])
	assert.Less(t, pos["pkg:d"], pos["pkg:c"])
	assert.Less(t, pos["pkg:b"], pos["pkg:a"])
	assert.Less(t, pos["pkg:c"], pos["pkg:a"])
}
