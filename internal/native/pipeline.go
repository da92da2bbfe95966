package native

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/state"
)

// Action mnemonics of the pipeline steps.
const (
	CodegenMnemonic  = "NativeCodegen"
	LinkMnemonic     = "NativeLink"
	RenameMnemonic   = "SoRename"
	GenShimMnemonic  = "GenShim"
	ShimLinkMnemonic = "ShimLink"
)

// Pipeline describes native compile/link actions into an action graph.
type Pipeline struct {
	Workspace config.Workspace
	OutDir    string
}

// Result is what one node contributes after native compilation: its own
// group, the produced extension artifacts, and the native context
// downstream groups compile against.
type Result struct {
	Group      state.Group
	Extensions []string
	Context    *state.NativeContext
}

// Describe emits the actions compiling one node's own sources as a single
// group. allGroups must contain every transitively reachable group,
// including this node's, in merge order: the compiler sees cross-group
// structure even though only this node's native code is freshly generated.
// merged is the union of dependency native contexts.
func (p *Pipeline) Describe(
	g *action.Graph,
	lbl label.Label,
	version string,
	ownSrcs []state.Source,
	allGroups []state.Group,
	irOuts []string,
	merged *state.NativeContext,
) (*Result, error) {
	groupName := lbl.GroupName()
	groupDir := filepath.Join(p.OutDir, "native", groupName)

	nativeC := filepath.Join(groupDir, "__native.c")
	publicH := filepath.Join(groupDir, "__native.h")
	internalH := filepath.Join(groupDir, "__native_internal.h")

	// One generated translation unit plus a public and a private header
	// for the whole group.
	codegenArgv := []string{
		p.Workspace.NativeCodegen,
		"--groups", FormatGroups(allGroups),
		"--group", groupName,
		"--out-dir", groupDir,
	}
	codegenInputs := append([]string{}, irOuts...)
	for _, s := range ownSrcs {
		codegenInputs = append(codegenInputs, s.Path)
	}
	if err := g.Add(&action.Action{
		Mnemonic: CodegenMnemonic,
		Label:    lbl.String(),
		Argv:     codegenArgv,
		Inputs:   codegenInputs,
		Outputs:  []string{nativeC, publicH, internalH},
	}); err != nil {
		return nil, err
	}

	// Compile and link the translation unit into one shared library. The
	// merged context threads upstream group headers and libraries in.
	rawLib := filepath.Join(groupDir, "lib"+groupName+".so")
	linkArgv := []string{p.Workspace.NativeCC, "-shared", "-fPIC", "-I", groupDir}
	linkInputs := []string{nativeC, publicH, internalH}
	if merged != nil {
		for _, inc := range merged.Includes.Items() {
			linkArgv = append(linkArgv, "-I", inc)
		}
		linkInputs = append(linkInputs, merged.Libs.Items()...)
	}
	linkArgv = append(linkArgv, "-o", rawLib, nativeC)
	if merged != nil {
		linkArgv = append(linkArgv, merged.Libs.Items()...)
	}
	if err := g.Add(&action.Action{
		Mnemonic: LinkMnemonic,
		Label:    lbl.String(),
		Argv:     linkArgv,
		Inputs:   linkInputs,
		Outputs:  []string{rawLib},
	}); err != nil {
		return nil, err
	}

	// The linker's default naming is not importable; rename post-link.
	groupLib := filepath.Join(p.OutDir, "native", SharedLibName(groupName))
	if err := g.Add(&action.Action{
		Mnemonic: RenameMnemonic,
		Label:    lbl.String(),
		Argv:     []string{"cp", rawLib, groupLib},
		Inputs:   []string{rawLib},
		Outputs:  []string{groupLib},
	}); err != nil {
		return nil, err
	}

	// One shim extension per own source, each its own importable module
	// delegating into the group library.
	extensions := make([]string, 0, len(ownSrcs))
	for _, src := range ownSrcs {
		ext, err := p.describeShim(g, lbl, groupDir, groupLib, publicH, src)
		if err != nil {
			return nil, err
		}
		extensions = append(extensions, ext)
	}

	return &Result{
		Group: state.Group{Name: groupName, Srcs: state.NewSourceSet(ownSrcs...).Paths()},
		Extensions: extensions,
		Context: &state.NativeContext{
			Includes: state.NewStringSet(groupDir),
			Libs:     state.NewStringSet(groupLib),
		},
	}, nil
}

// describeShim emits the write + compile/link pair for one module's shim.
func (p *Pipeline) describeShim(
	g *action.Graph,
	lbl label.Label,
	groupDir, groupLib, publicH string,
	src state.Source,
) (string, error) {
	modname := ModuleName(src.Path)
	mangled := MangleModule(ModulePath(src.Path))
	libname := filepath.Base(groupLib)

	shimC := filepath.Join(groupDir, "shims", mangled+".c")
	if err := g.Add(&action.Action{
		Mnemonic: GenShimMnemonic,
		Label:    lbl.String(),
		Content:  RenderShim(modname, libname, mangled),
		Outputs:  []string{shimC},
	}); err != nil {
		return "", err
	}

	ext := p.extensionPath(src.Path)
	argv := []string{
		p.Workspace.NativeCC, "-shared", "-fPIC",
		"-I", groupDir,
		"-o", ext, shimC, groupLib,
	}
	if err := g.Add(&action.Action{
		Mnemonic: ShimLinkMnemonic,
		Label:    lbl.String(),
		Argv:     argv,
		Inputs:   []string{shimC, groupLib, publicH},
		Outputs:  []string{ext},
	}); err != nil {
		return "", err
	}
	return ext, nil
}

// extensionPath places a shim's importable extension next to its module
// path under the native output root.
func (p *Pipeline) extensionPath(srcPath string) string {
	noExt := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	return filepath.Join(p.OutDir, "native", fmt.Sprintf("%s.%s.so", noExt, ABITag))
}
