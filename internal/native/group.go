package native

import (
	"path/filepath"
	"strings"

	"github.com/vk/pycheckgo/internal/state"
)

// ABITag is the fixed extension ABI suffix. The linker's default output
// naming is not importable, so every produced library and shim is renamed
// into this convention.
const ABITag = "cpython-37m-x86_64-linux-gnu"

// FormatGroup serializes one compilation group descriptor as
// "name:path1,path2,...".
func FormatGroup(g state.Group) string {
	return g.Name + ":" + strings.Join(g.Srcs, ",")
}

// FormatGroups joins every reachable group descriptor with ";" for the
// compiler's argument list.
func FormatGroups(groups []state.Group) string {
	specs := make([]string, len(groups))
	for i, g := range groups {
		specs[i] = FormatGroup(g)
	}
	return strings.Join(specs, ";")
}

// SharedLibName returns the importable shared library file name for a
// compiled group.
func SharedLibName(groupName string) string {
	return groupName + "." + ABITag + ".so"
}

// ModuleName returns the bare module name of a source file:
// "pkg/a/m1.py" -> "m1".
func ModuleName(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ModulePath returns the dotted fully qualified module name of a source
// file: "pkg/a/m1.py" -> "pkg.a.m1".
func ModulePath(srcPath string) string {
	noExt := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	return strings.ReplaceAll(filepath.ToSlash(noExt), "/", ".")
}
