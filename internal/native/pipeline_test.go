package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/state"
)

func testPipeline() *Pipeline {
	return &Pipeline{
		Workspace: config.Workspace{NativeCodegen: "mypyc-codegen", NativeCC: "cc"},
		OutDir:    "out",
	}
}

func TestDescribeOneLibraryTwoShims(t *testing.T) {
	g := action.NewGraph()
	lbl := label.MustParse("pkg:c")
	ownSrcs := []state.Source{{Path: "pkg/m1.py"}, {Path: "pkg/n1.py"}}
	groups := []state.Group{{Name: "pkg.c", Srcs: []string{"pkg/m1.py", "pkg/n1.py"}}}
	irOuts := []string{"out/pkg/m1.3.ir.json", "out/pkg/n1.3.ir.json"}

	res, err := testPipeline().Describe(g, lbl, "3", ownSrcs, groups, irOuts, nil)
	require.NoError(t, err)

	assert.Equal(t, "pkg.c", res.Group.Name)
	assert.Equal(t, []string{"pkg/m1.py", "pkg/n1.py"}, res.Group.Srcs)

	// Exactly one shared library and one shim extension per own source.
	require.Len(t, res.Extensions, 2)
	assert.Equal(t, "out/native/pkg/m1.cpython-37m-x86_64-linux-gnu.so", res.Extensions[0])
	assert.Equal(t, "out/native/pkg/n1.cpython-37m-x86_64-linux-gnu.so", res.Extensions[1])

	var codegen, link, rename, genShim, shimLink int
	groupLib := "out/native/pkg.c.cpython-37m-x86_64-linux-gnu.so"
	for _, a := range g.Actions() {
		switch a.Mnemonic {
		case CodegenMnemonic:
			codegen++
			assert.Contains(t, a.Argv, "pkg.c:pkg/m1.py,pkg/n1.py")
			assert.Subset(t, a.Inputs, irOuts)
		case LinkMnemonic:
			link++
		case RenameMnemonic:
			rename++
			assert.Equal(t, []string{groupLib}, a.Outputs)
		case GenShimMnemonic:
			genShim++
			assert.NotEmpty(t, a.Content)
		case ShimLinkMnemonic:
			shimLink++
			assert.Contains(t, a.Inputs, groupLib)
		}
	}
	assert.Equal(t, 1, codegen)
	assert.Equal(t, 1, link)
	assert.Equal(t, 1, rename)
	assert.Equal(t, 2, genShim)
	assert.Equal(t, 2, shimLink)
}

func TestDescribeThreadsMergedContext(t *testing.T) {
	g := action.NewGraph()
	merged := &state.NativeContext{
		Includes: state.NewStringSet("out/native/dep"),
		Libs:     state.NewStringSet("out/native/dep.cpython-37m-x86_64-linux-gnu.so"),
	}

	res, err := testPipeline().Describe(
		g,
		label.MustParse("pkg:c"),
		"3",
		[]state.Source{{Path: "pkg/m1.py"}},
		[]state.Group{{Name: "pkg.c", Srcs: []string{"pkg/m1.py"}}},
		[]string{"out/pkg/m1.3.ir.json"},
		merged,
	)
	require.NoError(t, err)

	var linked *action.Action
	for _, a := range g.Actions() {
		if a.Mnemonic == LinkMnemonic {
			linked = a
		}
	}
	require.NotNil(t, linked)
	assert.Contains(t, linked.Argv, "out/native/dep")
	assert.Contains(t, linked.Argv, "out/native/dep.cpython-37m-x86_64-linux-gnu.so")
	assert.Contains(t, linked.Inputs, "out/native/dep.cpython-37m-x86_64-linux-gnu.so")

	// The node's own contribution to the downstream context.
	assert.Equal(t, []string{"out/native/pkg.c"}, res.Context.Includes.Items())
}

func TestRenderShim(t *testing.T) {
	out := RenderShim("m1", "pkg.c.cpython-37m-x86_64-linux-gnu.so", "pkg___m1")
	assert.Contains(t, out, "PyInit_m1")
	assert.Contains(t, out, "CPyInit_pkg___m1")
	assert.Contains(t, out, "pkg.c.cpython-37m-x86_64-linux-gnu.so")
	assert.NotContains(t, out, "{modname}")
	assert.NotContains(t, out, "{libname}")
	assert.NotContains(t, out, "{full_modname}")
}
