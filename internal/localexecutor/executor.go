// Package localexecutor provides a concrete, in-process implementation of
// the action.Executor interface: it derives scheduling edges by matching
// declared inputs against declared outputs, runs independent actions in
// parallel across a worker pool, skips actions whose input digests are
// unchanged, and fails dependents of failed actions.
package localexecutor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vk/pycheckgo/internal/action"
	"github.com/vk/pycheckgo/internal/ctxlog"
)

// Options configures a local executor.
type Options struct {
	// Workers is the number of concurrent workers. Values below 1 are
	// treated as 1.
	Workers int
	// DryRun logs what would run without touching the file system.
	DryRun bool
	// OutDir is where digest manifests and the run summary live.
	OutDir string
}

// Executor implements action.Executor for local execution.
type Executor struct {
	opts Options
}

// New creates a local executor.
func New(opts Options) *Executor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Executor{opts: opts}
}

// task is one scheduled action plus its unmet-dependency counter.
type task struct {
	a          *action.Action
	deps       atomic.Int32
	dependents []*task
}

// taskResult records one action's outcome for the run summary.
type taskResult struct {
	Output   string `json:"output"`
	Mnemonic string `json:"mnemonic"`
	Label    string `json:"label"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

const (
	statusDone    = "done"
	statusCached  = "cached"
	statusDryRun  = "dry-run"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// Execute runs the whole declared graph. The first process-level failure
// cancels outstanding work and skips dependents; the returned error
// reports how many actions failed. Report contents are not interpreted
// here: a checker run that finds type errors still succeeds as a process.
func (e *Executor) Execute(ctx context.Context, g *action.Graph) error {
	logger := ctxlog.FromContext(ctx)
	runID := uuid.NewString()
	logger.Info("Execution starting.", "run_id", runID, "actions", g.Len(), "workers", e.opts.Workers, "dry_run", e.opts.DryRun)

	tasks := schedule(g)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readyChan := make(chan *task, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))

	var mu sync.Mutex
	results := make(map[string]*taskResult, len(tasks))
	record := func(t *task, status, errMsg string) {
		mu.Lock()
		defer mu.Unlock()
		results[t.a.Key()] = &taskResult{
			Output:   t.a.Key(),
			Mnemonic: t.a.Mnemonic,
			Label:    t.a.Label,
			Status:   status,
			Error:    errMsg,
		}
	}

	for _, t := range tasks {
		if t.deps.Load() == 0 {
			readyChan <- t
		}
	}

	for i := 0; i < e.opts.Workers; i++ {
		go e.worker(ctx, i, readyChan, cancel, &wg, record)
	}

	wg.Wait()
	close(readyChan)

	failed := 0
	mu.Lock()
	ordered := make([]*taskResult, 0, len(tasks))
	for _, t := range tasks {
		if r, ok := results[t.a.Key()]; ok {
			ordered = append(ordered, r)
			if r.Status == statusFailed {
				failed++
			}
		}
	}
	mu.Unlock()

	if !e.opts.DryRun {
		if err := e.writeSummary(runID, ordered); err != nil {
			logger.Warn("Failed to write run summary.", "error", err)
		}
	}

	logger.Info("Execution finished.", "run_id", runID, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d actions failed", failed, len(tasks))
	}
	return nil
}

// schedule builds the task list with dependency counters and dependent
// links derived from output->input matches.
func schedule(g *action.Graph) []*task {
	actions := g.Actions()
	byKey := make(map[string]*task, len(actions))
	tasks := make([]*task, 0, len(actions))
	for _, a := range actions {
		t := &task{a: a}
		byKey[a.Key()] = t
		tasks = append(tasks, t)
	}

	for _, t := range tasks {
		seen := make(map[string]struct{})
		for _, in := range t.a.Inputs {
			producer, ok := g.Producer(in)
			if !ok || producer.Key() == t.a.Key() {
				continue
			}
			if _, dup := seen[producer.Key()]; dup {
				continue
			}
			seen[producer.Key()] = struct{}{}
			dep := byKey[producer.Key()]
			dep.dependents = append(dep.dependents, t)
			t.deps.Add(1)
		}
	}
	return tasks
}

// writeSummary persists the per-action results of one run as JSON.
func (e *Executor) writeSummary(runID string, results []*taskResult) error {
	summary := struct {
		RunID   string        `json:"run_id"`
		Actions []*taskResult `json:"actions"`
	}{RunID: runID, Actions: results}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(e.opts.OutDir, "run_summary.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
