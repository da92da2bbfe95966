package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
)

// translateTarget converts an HCL target block into the agnostic model.
func translateTarget(b *Target, kind config.Kind) (*config.Target, error) {
	lbl, err := label.Parse(b.Label)
	if err != nil {
		return nil, err
	}
	deps, err := parseLabels(b.Deps)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", lbl, err)
	}
	return &config.Target{
		Label:    lbl,
		Kind:     kind,
		Srcs:     b.Srcs,
		Stubs:    b.Stubs,
		Deps:     deps,
		Compile:  b.Compile,
		SrcRoot:  b.SrcRoot,
		External: b.External,
	}, nil
}

// translateWrappedTest converts a py_wrapped_test block. The actual label
// is kept separate from deps; the graph builder decides whether the shape
// combination is legal.
func translateWrappedTest(b *WrappedTest) (*config.Target, error) {
	lbl, err := label.Parse(b.Label)
	if err != nil {
		return nil, err
	}
	actual, err := label.Parse(b.Actual)
	if err != nil {
		return nil, fmt.Errorf("target %s: bad actual: %w", lbl, err)
	}
	deps, err := parseLabels(b.Deps)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", lbl, err)
	}
	return &config.Target{
		Label:  lbl,
		Kind:   config.KindWrappedTest,
		Actual: &actual,
		Deps:   deps,
	}, nil
}

// translateFilegroup converts a filegroup block.
func translateFilegroup(b *Filegroup) (*config.Target, error) {
	lbl, err := label.Parse(b.Label)
	if err != nil {
		return nil, err
	}
	return &config.Target{
		Label: lbl,
		Kind:  config.KindFilegroup,
		Srcs:  b.Srcs,
	}, nil
}

// translateWorkspace converts the workspace block, evaluating the versions
// expression into a plain string list.
func translateWorkspace(b *Workspace) (config.Workspace, error) {
	ws := config.Workspace{
		Interpreter:    b.Interpreter,
		Checker:        b.Checker,
		NativeCodegen:  b.NativeCodegen,
		NativeCC:       b.NativeCC,
		Verifier:       b.Verifier,
		Plugins:        b.Plugins,
		ExtraRoot:      b.ExtraRoot,
		DefaultVersion: b.DefaultVersion,
	}

	if b.Versions != nil {
		val, diags := b.Versions.Value(nil)
		if diags.HasErrors() {
			return ws, fmt.Errorf("versions: %w", diags)
		}
		if !val.IsNull() {
			versions, err := ctyStringList(val)
			if err != nil {
				return ws, fmt.Errorf("versions: %w", err)
			}
			ws.Versions = versions
		}
	}
	return ws, nil
}

// ctyStringList converts a cty list or tuple of strings into a Go slice.
func ctyStringList(val cty.Value) ([]string, error) {
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", ty.FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String || elem.IsNull() {
			return nil, fmt.Errorf("expected a list of strings, got element of type %s", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

// applyWorkspaceDefaults fills workspace fields no build file set. The
// interpreter has no default on purpose; requiring it is part of the
// construction-time validation contract.
func applyWorkspaceDefaults(ws *config.Workspace) {
	if ws.Checker == "" {
		ws.Checker = "mypy"
	}
	if ws.NativeCodegen == "" {
		ws.NativeCodegen = "mypyc-codegen"
	}
	if ws.NativeCC == "" {
		ws.NativeCC = "cc"
	}
	if ws.Verifier == "" {
		ws.Verifier = "check-verify"
	}
	if ws.DefaultVersion == "" {
		ws.DefaultVersion = "3"
	}
	if len(ws.Versions) == 0 {
		ws.Versions = []string{"2", "3"}
	}
}

// parseLabels parses a slice of label strings.
func parseLabels(in []string) ([]label.Label, error) {
	out := make([]label.Label, 0, len(in))
	for _, s := range in {
		l, err := label.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("bad dep label %q: %w", s, err)
		}
		out = append(out, l)
	}
	return out, nil
}
