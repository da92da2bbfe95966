package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pycheckgo/internal/config"
)

func writeBuildFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func loadDir(t *testing.T, dir string) (*config.Model, error) {
	t.Helper()
	return NewLoader().Load(context.Background(), dir)
}

func TestLoadFullWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "build.hcl", `
workspace {
  interpreter     = "tools/python3"
  checker         = "tools/mypy"
  plugins         = ["tools/mypy.ini"]
  extra_root      = "stubs/extra"
  default_version = "3"
  versions        = ["2", "3"]
}

py_library "pkg:a" {
  srcs = ["pkg/a.py"]
}

py_library "pkg:b" {
  srcs    = ["pkg/b.py"]
  stubs   = ["pkg/b_ext.pyi"]
  deps    = ["pkg:a"]
  compile = true
}
`)

	model, err := loadDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "tools/python3", model.Workspace.Interpreter)
	assert.Equal(t, "tools/mypy", model.Workspace.Checker)
	assert.Equal(t, []string{"tools/mypy.ini"}, model.Workspace.Plugins)
	assert.Equal(t, "stubs/extra", model.Workspace.ExtraRoot)
	assert.Equal(t, []string{"2", "3"}, model.Workspace.Versions)

	require.Len(t, model.Targets, 2)
	assert.Equal(t, []string{"pkg:a", "pkg:b"}, model.Order)

	b := model.Targets["pkg:b"]
	require.NotNil(t, b)
	assert.Equal(t, config.KindLibrary, b.Kind)
	assert.Equal(t, []string{"pkg/b.py"}, b.Srcs)
	assert.Equal(t, []string{"pkg/b_ext.pyi"}, b.Stubs)
	assert.True(t, b.Compile)
	require.Len(t, b.Deps, 1)
	assert.Equal(t, "pkg:a", b.Deps[0].String())
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "build.hcl", `
workspace {
  interpreter = "tools/python3"
}
`)

	model, err := loadDir(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "mypy", model.Workspace.Checker)
	assert.Equal(t, "mypyc-codegen", model.Workspace.NativeCodegen)
	assert.Equal(t, "cc", model.Workspace.NativeCC)
	assert.Equal(t, "check-verify", model.Workspace.Verifier)
	assert.Equal(t, "3", model.Workspace.DefaultVersion)
	assert.Equal(t, []string{"2", "3"}, model.Workspace.Versions)
}

func TestLoadMergesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "workspace.hcl", `
workspace {
  interpreter = "tools/python3"
}
`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	writeBuildFile(t, dir, filepath.Join("pkg", "build.hcl"), `
py_test "pkg:a_test" {
  srcs = ["pkg/a_test.py"]
}

py_wrapped_test "pkg:wrapped" {
  actual = "pkg:a_test"
}

filegroup "pkg:data" {
  srcs = ["pkg/data.txt"]
}
`)

	model, err := loadDir(t, dir)
	require.NoError(t, err)
	require.Len(t, model.Targets, 3)

	wrapped := model.Targets["pkg:wrapped"]
	require.NotNil(t, wrapped)
	assert.Equal(t, config.KindWrappedTest, wrapped.Kind)
	require.NotNil(t, wrapped.Actual)
	assert.Equal(t, "pkg:a_test", wrapped.Actual.String())

	assert.Equal(t, config.KindFilegroup, model.Targets["pkg:data"].Kind)
}

func TestLoadDuplicateTarget(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "build.hcl", `
workspace {
  interpreter = "tools/python3"
}

py_library "pkg:a" {
  srcs = ["pkg/a.py"]
}

py_library "pkg:a" {
  srcs = ["pkg/a2.py"]
}
`)

	_, err := loadDir(t, dir)
	assert.ErrorContains(t, err, "duplicate target pkg:a")
}

func TestLoadDuplicateWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "a.hcl", `
workspace {
  interpreter = "tools/python3"
}
`)
	writeBuildFile(t, dir, "b.hcl", `
workspace {
  interpreter = "tools/other"
}
`)

	_, err := loadDir(t, dir)
	assert.ErrorContains(t, err, "duplicate workspace block")
}

func TestLoadBadVersionsType(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "build.hcl", `
workspace {
  interpreter = "tools/python3"
  versions    = "3"
}
`)

	_, err := loadDir(t, dir)
	assert.ErrorContains(t, err, "versions")
}

func TestLoadNoBuildFiles(t *testing.T) {
	_, err := loadDir(t, t.TempDir())
	assert.ErrorContains(t, err, "no .hcl build files")
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	writeBuildFile(t, dir, "build.hcl", `workspace { interpreter = `)

	_, err := loadDir(t, dir)
	assert.ErrorContains(t, err, "failed to parse")
}
