package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/state"
)

func testWorkspace() config.Workspace {
	return config.Workspace{
		Interpreter: "tools/python3",
		Checker:     "tools/mypy",
		Plugins:     []string{"tools/mypy.ini"},
	}
}

func testState() state.Node {
	return state.Node{
		Srcs:  state.NewSourceSet(state.Source{Path: "pkg/x.py"}, state.Source{Path: "pkg/y.py"}),
		Roots: state.NewStringSet("."),
		Cache: state.NewCacheMap(
			state.CacheEntry{Src: "pkg/x.py", Outs: []string{"out/pkg/x.3.meta.json", "out/pkg/x.3.data.json"}},
			state.CacheEntry{Src: "pkg/y.py", Outs: []string{"out/pkg/y.3.meta.json", "out/pkg/y.3.data.json"}},
		),
	}
}

func TestBuildArgvLayout(t *testing.T) {
	a := Build(Request{
		Workspace:    testWorkspace(),
		Label:        label.MustParse("pkg:t"),
		Version:      "3",
		State:        testState(),
		Report:       "out/pkg/t.3.junit.xml",
		OwnCacheOuts: []string{"out/pkg/y.3.meta.json", "out/pkg/y.3.data.json"},
	})

	assert.Equal(t, []string{
		"tools/mypy",
		"--bazel",
		"--python-version", "3",
		"--package-root", ".",
		"--no-error-summary",
		"--incremental",
		"--junit-xml", "out/pkg/t.3.junit.xml",
		"--cache-map",
		"pkg/x.py", "out/pkg/x.3.meta.json", "out/pkg/x.3.data.json",
		"pkg/y.py", "out/pkg/y.3.meta.json", "out/pkg/y.3.data.json",
		"--",
		"pkg/x.py", "pkg/y.py",
	}, a.Argv)

	assert.Equal(t, Mnemonic, a.Mnemonic)
	assert.Equal(t, "pkg:t", a.Label)
	assert.Equal(t, []string{"out/pkg/t.3.junit.xml", "out/pkg/y.3.meta.json", "out/pkg/y.3.data.json"}, a.Outputs)

	// Dependency-supplied caches are inputs; the node's own are not.
	assert.Contains(t, a.Inputs, "out/pkg/x.3.meta.json")
	assert.NotContains(t, a.Inputs, "out/pkg/y.3.meta.json")
	assert.Contains(t, a.Inputs, "tools/mypy.ini")
	assert.Contains(t, a.Inputs, "tools/python3")
}

func TestBuildCacheMapAdjacency(t *testing.T) {
	a := Build(Request{
		Workspace: testWorkspace(),
		Label:     label.MustParse("pkg:t"),
		Version:   "3",
		State:     testState(),
		Report:    "out/pkg/t.3.junit.xml",
	})

	// Every source is listed contiguously with its outputs, in
	// declaration order.
	var idx int
	for i, arg := range a.Argv {
		if arg == "pkg/y.py" {
			idx = i
			break
		}
	}
	require.NotZero(t, idx)
	assert.Equal(t, "out/pkg/y.3.meta.json", a.Argv[idx+1])
	assert.Equal(t, "out/pkg/y.3.data.json", a.Argv[idx+2])
}

func TestBuildLegacyOmitsVersionFlag(t *testing.T) {
	a := Build(Request{
		Workspace: testWorkspace(),
		Label:     label.MustParse("pkg:t"),
		Version:   "2",
		Legacy:    true,
		State:     testState(),
		Report:    "out/pkg/t.2.junit.xml",
	})
	assert.NotContains(t, a.Argv, "--python-version")
}

func TestBuildMypycPrefix(t *testing.T) {
	a := Build(Request{
		Workspace: testWorkspace(),
		Label:     label.MustParse("pkg:t"),
		Version:   "3",
		State:     testState(),
		Report:    "out/pkg/t.3.junit.xml",
		IROuts:    []string{"out/pkg/x.3.ir.json"},
		Groups: []state.Group{
			{Name: "dep.g", Srcs: []string{"dep/a.py"}},
			{Name: "pkg.t", Srcs: []string{"pkg/x.py", "pkg/y.py"}},
		},
		JUnitRoot: "out",
	})

	// The mypyc request leads the command line.
	assert.Equal(t, "tools/mypy", a.Argv[0])
	assert.Equal(t, "--mypyc", a.Argv[1])
	assert.Equal(t, "dep.g:dep/a.py;pkg.t:pkg/x.py,pkg/y.py", a.Argv[2])
	assert.Equal(t, "out", a.Argv[3])
	assert.Equal(t, "--bazel", a.Argv[4])

	assert.Contains(t, a.Outputs, "out/pkg/x.3.ir.json")
}

func TestCacheArtifacts(t *testing.T) {
	outs := CacheArtifacts("out", "pkg/x.py", "3")
	assert.Equal(t, []string{"out/pkg/x.3.meta.json", "out/pkg/x.3.data.json"}, outs)
	assert.Equal(t, "out/pkg/x.3.ir.json", IRArtifact("out", "pkg/x.py", "3"))
	assert.Equal(t, "out/pkg/t.3.junit.xml", ReportPath("out", label.MustParse("pkg:t"), "3"))
}
