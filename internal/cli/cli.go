// Package cli defines the command tree.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/pycheckgo/internal/app"
	"github.com/vk/pycheckgo/internal/hcl"
)

// version is set via build-time ldflags.
var version = "dev"

// options holds the persistent flag values shared by every subcommand.
type options struct {
	buildPath string
	outDir    string
	versions  []string
	logFormat string
	logLevel  string
	workers   int
	dryRun    bool
}

// NewRootCmd builds the root command. Logs go to errW; command output
// (the actions dump) goes to each command's configured stdout.
func NewRootCmd(errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pycheckgo",
		Short: "Incrementally type-check a Python build graph",
		Long: `pycheckgo reads HCL build files declaring Python targets, walks the
dependency graph computing each node's transitive state exactly once, and
turns the walk into a graph of deferred actions: incremental type-check
invocations, optional native compile/link steps, and report verification.
Actions are then executed locally with content-hash change detection.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.buildPath, "build-path", "b", ".", "Directory containing the .hcl build files.")
	pf.StringVarP(&opts.outDir, "out", "o", ".pycheck-out", "Output root for cache artifacts, reports and native libraries.")
	pf.StringSliceVar(&opts.versions, "python-version", nil, "Language versions to evaluate (repeatable). Defaults to the workspace default.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers for the executor.")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "Describe actions without executing them.")

	root.AddCommand(
		newCheckCmd(errW, opts),
		newTestCmd(errW, opts),
		newActionsCmd(errW, opts),
		newWatchCmd(errW, opts),
	)
	return root
}

// newApp constructs the application for one invocation.
func (o *options) newApp(errW io.Writer, targets []string) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		BuildPath:   o.buildPath,
		OutDir:      o.outDir,
		Versions:    o.versions,
		Targets:     targets,
		LogFormat:   o.logFormat,
		LogLevel:    o.logLevel,
		WorkerCount: o.workers,
		DryRun:      o.dryRun,
	})
	if err != nil {
		return nil, err
	}
	return app.NewApp(errW, cfg, hcl.NewLoader())
}
