// Package action models the "describe now, execute later" split: every
// unit of work is a declared, immutable description of inputs, outputs and
// command, collected into a graph and handed to an Executor. Nothing in
// the analysis pass ever starts a subprocess.
package action

import (
	"context"
	"fmt"
	"slices"
)

// Action is one deferred unit of work. Exactly one of Argv or Content is
// set: Argv describes a process invocation, Content a file the executor
// writes verbatim (template-expansion results such as shim sources).
type Action struct {
	// Mnemonic is a short machine-readable tag for the action class,
	// e.g. "PyTypeCheck" or "NativeLink".
	Mnemonic string
	// Label is the canonical label of the target that declared the action.
	Label string
	// Argv is the full command line, program first.
	Argv []string
	// Content is the literal file content for write actions.
	Content string
	// Inputs are the files the command reads. The executor derives
	// scheduling edges by matching inputs against other actions' outputs.
	Inputs []string
	// Outputs are the files the command produces. Every action declares at
	// least one; the first is the action's identity.
	Outputs []string
}

// Key returns the action's identity: its primary output. Two actions with
// the same primary output must be the same action.
func (a *Action) Key() string {
	return a.Outputs[0]
}

// Graph is an insertion-ordered collection of actions, duplicate-free by
// primary output. Re-adding an identical action is a no-op, which is what
// lets the walker's memoized fold visit shared dependencies through
// multiple paths without double-declaring work.
type Graph struct {
	actions  []*Action
	byKey    map[string]*Action
	byOutput map[string]*Action
}

// NewGraph returns an empty action graph.
func NewGraph() *Graph {
	return &Graph{
		byKey:    make(map[string]*Action),
		byOutput: make(map[string]*Action),
	}
}

// Add registers an action. Identical re-registration dedups silently; a
// second action claiming an already-produced output with a different
// command is an error, since the executor could not pick a producer.
func (g *Graph) Add(a *Action) error {
	if len(a.Outputs) == 0 {
		return fmt.Errorf("action %s (%s) declares no outputs", a.Mnemonic, a.Label)
	}
	if (len(a.Argv) == 0) == (a.Content == "") {
		return fmt.Errorf("action %s (%s) must set exactly one of argv or content", a.Mnemonic, a.Label)
	}

	if existing, ok := g.byKey[a.Key()]; ok {
		if sameAction(existing, a) {
			return nil
		}
		return fmt.Errorf("conflicting actions for output %s (%s vs %s)", a.Key(), existing.Mnemonic, a.Mnemonic)
	}

	for _, out := range a.Outputs {
		if other, ok := g.byOutput[out]; ok {
			return fmt.Errorf("output %s produced by both %s and %s", out, other.Key(), a.Key())
		}
	}

	g.byKey[a.Key()] = a
	for _, out := range a.Outputs {
		g.byOutput[out] = a
	}
	g.actions = append(g.actions, a)
	return nil
}

// Actions returns the actions in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Graph) Actions() []*Action {
	return g.actions
}

// Producer returns the action declaring the given file as an output.
func (g *Graph) Producer(output string) (*Action, bool) {
	a, ok := g.byOutput[output]
	return a, ok
}

// Len returns the number of declared actions.
func (g *Graph) Len() int {
	return len(g.actions)
}

// sameAction reports whether two descriptions are interchangeable.
func sameAction(a, b *Action) bool {
	return a.Mnemonic == b.Mnemonic &&
		a.Label == b.Label &&
		a.Content == b.Content &&
		slices.Equal(a.Argv, b.Argv) &&
		slices.Equal(a.Inputs, b.Inputs) &&
		slices.Equal(a.Outputs, b.Outputs)
}

// Executor is responsible for orchestrating the end-to-end execution of a
// declared action graph: scheduling independent actions in parallel,
// skipping up-to-date ones, and reporting process-level failures. The
// analysis side of the system only ever talks to this interface.
type Executor interface {
	Execute(ctx context.Context, g *Graph) error
}
