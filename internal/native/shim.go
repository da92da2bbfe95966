package native

import "strings"

// shimTemplate is the fixed C template every per-module shim extension is
// generated from. The three substitution keys are {modname}, {libname}
// and {full_modname}.
const shimTemplate = `#include <Python.h>

/* Shim extension for module {modname}; implementation lives in {libname}. */

PyObject *CPyInit_{full_modname}(void);

PyMODINIT_FUNC
PyInit_{modname}(void)
{
    return CPyInit_{full_modname}();
}
`

// RenderShim expands the shim template for one module of a compiled group.
// fullModname must already be in mangled form.
func RenderShim(modname, libname, fullModname string) string {
	r := strings.NewReplacer(
		"{modname}", modname,
		"{libname}", libname,
		"{full_modname}", fullModname,
	)
	return r.Replace(shimTemplate)
}
