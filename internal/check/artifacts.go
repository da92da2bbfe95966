// Package check describes type-check invocations: the cache artifacts each
// source declares and the one checker action per node per version.
package check

import (
	"path/filepath"
	"strings"

	"github.com/vk/pycheckgo/internal/label"
)

// Cache artifact suffixes. The ir file only exists for natively compiled
// nodes and never enters the cache map; it is compiler-internal.
const (
	metaSuffix = ".meta.json"
	dataSuffix = ".data.json"
	irSuffix   = ".ir.json"
)

// CacheArtifacts returns the declared cache artifact paths for one source
// at one version: <base>.<version>.meta.json and <base>.<version>.data.json
// under the output root.
func CacheArtifacts(outDir, srcPath, version string) []string {
	base := cacheBase(outDir, srcPath, version)
	return []string{base + metaSuffix, base + dataSuffix}
}

// IRArtifact returns the compiler-internal <base>.<version>.ir.json path
// for one source of a natively compiled node.
func IRArtifact(outDir, srcPath, version string) string {
	return cacheBase(outDir, srcPath, version) + irSuffix
}

// ReportPath returns the JUnit report artifact produced by checking one
// node at one version.
func ReportPath(outDir string, lbl label.Label, version string) string {
	return filepath.Join(outDir, lbl.Pkg, lbl.Name+"."+version+".junit.xml")
}

// cacheBase strips the source extension and prefixes the output root.
func cacheBase(outDir, srcPath, version string) string {
	noExt := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	return filepath.Join(outDir, noExt) + "." + version
}
