// Package hcl implements the HCL build-file loader behind the
// config.Loader interface.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
	"github.com/vk/pycheckgo/internal/fsutil"
)

// BuildFileExtension is the suffix build files must carry.
const BuildFileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader
// interface.
type Loader struct{}

// NewLoader creates a new HCL build-file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every build file under root and merges all declared blocks
// into one model. Parse and decode failures abort the load; so do
// duplicate target labels and duplicate workspace blocks, since silently
// picking one of two declarations would make evaluation depend on file
// discovery order.
func (l *Loader) Load(ctx context.Context, root string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "root", root)

	files, err := fsutil.FindFilesByExtension(root, BuildFileExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to discover build files under %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s build files found under %s", BuildFileExtension, root)
	}
	logger.Debug("Discovered build files.", "count", len(files))

	model := &config.Model{
		Targets: make(map[string]*config.Target),
	}

	parser := hclparse.NewParser()
	sawWorkspace := false

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse build file %s: %w", file, diags)
		}

		var fr fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &fr)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode build file %s: %w", file, diags)
		}

		if fr.Workspace != nil {
			if sawWorkspace {
				return nil, fmt.Errorf("duplicate workspace block in %s", file)
			}
			sawWorkspace = true
			ws, err := translateWorkspace(fr.Workspace)
			if err != nil {
				return nil, fmt.Errorf("invalid workspace block in %s: %w", file, err)
			}
			model.Workspace = ws
		}

		if err := mergeTargets(model, file, &fr); err != nil {
			return nil, err
		}
	}

	applyWorkspaceDefaults(&model.Workspace)

	logger.Debug("HCL loading complete.",
		"targets", len(model.Targets),
		"versions", model.Workspace.Versions,
	)
	return model, nil
}

// mergeTargets translates every target block of one file into the model.
func mergeTargets(model *config.Model, file string, fr *fileRoot) error {
	add := func(t *config.Target) error {
		key := t.Label.String()
		if _, exists := model.Targets[key]; exists {
			return fmt.Errorf("duplicate target %s declared in %s", key, file)
		}
		model.Targets[key] = t
		model.Order = append(model.Order, key)
		return nil
	}

	for _, b := range fr.Libraries {
		t, err := translateTarget(b, config.KindLibrary)
		if err != nil {
			return fmt.Errorf("invalid py_library in %s: %w", file, err)
		}
		if err := add(t); err != nil {
			return err
		}
	}
	for _, b := range fr.Binaries {
		t, err := translateTarget(b, config.KindBinary)
		if err != nil {
			return fmt.Errorf("invalid py_binary in %s: %w", file, err)
		}
		if err := add(t); err != nil {
			return err
		}
	}
	for _, b := range fr.Tests {
		t, err := translateTarget(b, config.KindTest)
		if err != nil {
			return fmt.Errorf("invalid py_test in %s: %w", file, err)
		}
		if err := add(t); err != nil {
			return err
		}
	}
	for _, b := range fr.Wrapped {
		t, err := translateWrappedTest(b)
		if err != nil {
			return fmt.Errorf("invalid py_wrapped_test in %s: %w", file, err)
		}
		if err := add(t); err != nil {
			return err
		}
	}
	for _, b := range fr.Filegroups {
		t, err := translateFilegroup(b)
		if err != nil {
			return fmt.Errorf("invalid filegroup in %s: %w", file, err)
		}
		if err := add(t); err != nil {
			return err
		}
	}
	return nil
}
