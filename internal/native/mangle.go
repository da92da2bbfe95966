// Package native describes the optional native compilation pipeline:
// grouping a node's sources into one compiled translation unit, linking a
// shared library, and emitting per-module shim extensions bound to it.
package native

import "strings"

const (
	tripleUnderscore = "___"
	// escapedTriple is the 5-character marker a literal triple-underscore
	// run expands to before namespace separation. Escaping first prevents
	// the separator encoding from colliding with literal underscores.
	escapedTriple = "___3_"
)

// MangleModule converts a dotted fully qualified module name into the
// exported symbol form: literal "___" runs are escaped, then every dot
// becomes a triple-underscore namespace separator.
//
//	"pkg.mod"  -> "pkg___mod"
//	"a___b.c"  -> "a___3_b___c"
func MangleModule(fullModname string) string {
	escaped := strings.ReplaceAll(fullModname, tripleUnderscore, escapedTriple)
	return strings.ReplaceAll(escaped, ".", tripleUnderscore)
}
