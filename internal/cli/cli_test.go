package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(io.Discard)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestActionsDump(t *testing.T) {
	out, err := runCommand(t,
		"actions",
		"--build-path", filepath.Join("testdata", "simple"),
		"--out", "out",
		"--log-level", "error",
	)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "simple", []byte(out))
}

func TestActionsDumpSingleTarget(t *testing.T) {
	out, err := runCommand(t,
		"actions",
		"--build-path", filepath.Join("testdata", "simple"),
		"--out", "out",
		"--log-level", "error",
		"pkg:a",
	)
	require.NoError(t, err)

	// Selecting the dependency alone yields exactly its invocation.
	assert.Contains(t, out, "action PyTypeCheck out/pkg/a.3.junit.xml")
	assert.NotContains(t, out, "out/pkg/b.3.junit.xml")
}

func TestCheckDryRun(t *testing.T) {
	_, err := runCommand(t,
		"check",
		"--build-path", filepath.Join("testdata", "simple"),
		"--out", t.TempDir(),
		"--log-level", "error",
		"--dry-run",
	)
	assert.NoError(t, err)
}

func TestUnknownTarget(t *testing.T) {
	_, err := runCommand(t,
		"actions",
		"--build-path", filepath.Join("testdata", "simple"),
		"--log-level", "error",
		"pkg:nope",
	)
	assert.ErrorContains(t, err, "unknown target pkg:nope")
}

func TestMissingBuildPath(t *testing.T) {
	_, err := runCommand(t,
		"check",
		"--build-path", t.TempDir(),
		"--log-level", "error",
	)
	assert.ErrorContains(t, err, "build files")
}
