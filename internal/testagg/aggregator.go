// Package testagg reduces transitively reachable report artifacts to one
// pass/fail verification action. The test target itself performs no
// analysis; every report it reads was produced as a side effect of
// building the graph.
package testagg

import (
	"context"
	"path/filepath"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/config"
	"github.com/vk/pycheckgo/internal/ctxlog"
	"github.com/vk/pycheckgo/internal/label"
	"github.com/vk/pycheckgo/internal/state"
	"github.com/vk/pycheckgo/internal/walker"
)

// Mnemonic tags every report verification action.
const Mnemonic = "TypeCheckVerify"

// ResultsFile is the fixed test-results file name under a target's output
// directory.
const ResultsFile = "test_results.xml"

// Aggregator describes verification actions against one walker's model
// and action graph.
type Aggregator struct {
	Walker    *walker.Walker
	Workspace config.Workspace
	OutDir    string
}

// Describe evaluates the target for every requested version, collects the
// deduplicated union of reachable reports, and declares a single action
// reading the concatenated reports. It returns the results path, or the
// empty string when no report is reachable and the target is a no-op.
func (a *Aggregator) Describe(ctx context.Context, lbl label.Label, versions []string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	reports := state.NewStringSet()
	for _, version := range versions {
		st, err := a.Walker.Visit(ctx, lbl, version)
		if err != nil {
			return "", err
		}
		reports = reports.Union(st.Reports)
	}

	if reports.Len() == 0 {
		logger.Debug("No reachable reports; verification not required.", "label", lbl)
		return "", nil
	}

	results := filepath.Join(a.OutDir, lbl.Pkg, lbl.Name, ResultsFile)
	argv := []string{a.Workspace.Verifier, "--label", lbl.String()}
	argv = append(argv, reports.Items()...)

	err := a.Walker.Actions().Add(&action.Action{
		Mnemonic: Mnemonic,
		Label:    lbl.String(),
		Argv:     argv,
		Inputs:   reports.Items(),
		Outputs:  []string{results},
	})
	if err != nil {
		return "", err
	}
	logger.Debug("Verification action described.", "label", lbl, "reports", reports.Len())
	return results, nil
}
