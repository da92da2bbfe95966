package localexecutor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/pycheckgo/internal/action"
)

// actionDigest hashes an action's command line and the content of every
// input file. An unreadable input makes the action unhashable, which just
// disables the up-to-date skip for it.
func (e *Executor) actionDigest(a *action.Action) (string, error) {
	h := sha256.New()
	for _, arg := range a.Argv {
		io.WriteString(h, arg)
		h.Write([]byte{0})
	}
	for _, in := range a.Inputs {
		f, err := os.Open(in)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", err
		}
		f.Close()
		io.WriteString(h, in)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// upToDate reports whether every output exists and the stored digest of
// the last successful run matches.
func (e *Executor) upToDate(a *action.Action, digest string) bool {
	for _, out := range a.Outputs {
		if _, err := os.Stat(out); err != nil {
			return false
		}
	}
	stored, err := os.ReadFile(e.manifestPath(a))
	if err != nil {
		return false
	}
	return string(stored) == digest
}

// storeDigest persists the digest of a successful run. Failures here only
// cost a future re-run, so they are ignored.
func (e *Executor) storeDigest(a *action.Action, digest string) {
	path := e.manifestPath(a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	os.WriteFile(path, []byte(digest), 0o644)
}

// manifestPath keys the stored digest by the hash of the action's primary
// output, keeping manifest names flat and path-safe.
func (e *Executor) manifestPath(a *action.Action) string {
	sum := sha256.Sum256([]byte(a.Key()))
	return filepath.Join(e.opts.OutDir, ".manifest", hex.EncodeToString(sum[:8]))
}

// commandError wraps a process failure with its captured output.
func commandError(a *action.Action, output []byte, err error) error {
	if len(output) == 0 {
		return fmt.Errorf("%s %s: %w", a.Mnemonic, a.Key(), err)
	}
	return fmt.Errorf("%s %s: %w\n%s", a.Mnemonic, a.Key(), err, output)
}
