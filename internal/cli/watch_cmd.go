package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const debounceInterval = 300 * time.Millisecond

// watchedSuffixes are the file kinds whose changes trigger a re-check.
var watchedSuffixes = []string{".hcl", ".py", ".pyi"}

// newWatchCmd builds the `watch` subcommand: re-evaluate the graph and
// re-check whenever build files or sources change.
func newWatchCmd(errW io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [target...]",
		Short: "Re-check targets whenever build files or sources change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, errW, opts, args)
		},
	}
}

func runWatch(cmd *cobra.Command, errW io.Writer, opts *options, targets []string) error {
	ctx := cmd.Context()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, opts.buildPath); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	runOnce := func() {
		a, err := opts.newApp(errW, targets)
		if err != nil {
			fmt.Fprintf(errW, "watch: %v\n", err)
			return
		}
		if err := a.Check(ctx); err != nil {
			fmt.Fprintf(errW, "watch: %v\n", err)
		}
	}
	runOnce()

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need their own watch before any file inside
			// them can be seen.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addWatchDirs(watcher, event.Name)
				}
			}
			if !isRelevantChange(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, runOnce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errW, "watch error: %v\n", err)
		}
	}
}

// addWatchDirs registers root and every directory below it.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name == ".git" || name == "__pycache__" || strings.HasPrefix(name, ".pycheck-out") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isRelevantChange filters events down to mutations of watched file kinds.
func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	for _, suffix := range watchedSuffixes {
		if strings.HasSuffix(event.Name, suffix) {
			return true
		}
	}
	return false
}
