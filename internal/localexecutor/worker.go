package localexecutor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/vk/pycheckgo/internal/ctxlog"
)

// worker is the core processing loop for a single concurrent worker.
// Every task is processed exactly once when its dependency counter hits
// zero; whatever the outcome, its dependents' counters drain afterwards,
// so the run always terminates.
func (e *Executor) worker(
	ctx context.Context,
	workerID int,
	readyChan chan *task,
	cancel context.CancelFunc,
	wg *sync.WaitGroup,
	record func(*task, string, string),
) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for t := range readyChan {
		workerLogger := logger.With("workerID", workerID, "output", t.a.Key())

		if ctx.Err() != nil {
			record(t, statusSkipped, "")
			e.release(t, readyChan)
			wg.Done()
			continue
		}

		workerLogger.Debug("Worker picked up action.", "mnemonic", t.a.Mnemonic)
		status, err := e.runAction(ctx, t)
		if err != nil {
			workerLogger.Error("Action failed.", "mnemonic", t.a.Mnemonic, "error", err)
			record(t, statusFailed, err.Error())
			// Cancel so dependents drain through the skip path above.
			cancel()
		} else {
			workerLogger.Debug("Action finished.", "status", status)
			record(t, status, "")
		}

		e.release(t, readyChan)
		wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// release decrements dependents' unmet-dependency counters and enqueues
// any that become ready.
func (e *Executor) release(t *task, readyChan chan *task) {
	for _, dependent := range t.dependents {
		if dependent.deps.Add(-1) == 0 {
			readyChan <- dependent
		}
	}
}

// runAction executes one action: a verbatim file write, or a process
// invocation with digest-based up-to-date skipping.
func (e *Executor) runAction(ctx context.Context, t *task) (string, error) {
	if e.opts.DryRun {
		return statusDryRun, nil
	}

	a := t.a
	if a.Content != "" {
		for _, out := range a.Outputs {
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return "", err
			}
			if err := os.WriteFile(out, []byte(a.Content), 0o644); err != nil {
				return "", err
			}
		}
		return statusDone, nil
	}

	digest, err := e.actionDigest(a)
	if err == nil && e.upToDate(a, digest) {
		return statusCached, nil
	}

	for _, out := range a.Outputs {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return "", err
		}
	}

	cmd := exec.CommandContext(ctx, a.Argv[0], a.Argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", commandError(a, output, err)
	}

	if digest != "" {
		e.storeDigest(a, digest)
	}
	return statusDone, nil
}
