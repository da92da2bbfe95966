package action

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a deterministic, human-readable rendering of the graph in
// insertion order. It is the debugging surface behind the `actions`
// subcommand and is covered by golden tests, so the format is stable.
func (g *Graph) Dump(w io.Writer) error {
	for i, a := range g.actions {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "action %s %s\n", a.Mnemonic, a.Key()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  label: %s\n", a.Label); err != nil {
			return err
		}
		if len(a.Argv) > 0 {
			if _, err := fmt.Fprintf(w, "  argv: %s\n", strings.Join(a.Argv, " ")); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "  write: %d bytes\n", len(a.Content)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  inputs: %s\n", strings.Join(a.Inputs, " ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  outputs: %s\n", strings.Join(a.Outputs, " ")); err != nil {
			return err
		}
	}
	return nil
}
