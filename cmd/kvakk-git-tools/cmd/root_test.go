package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopasspw/gopass/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
	"github.com/statisticsnorway/kvakk-git-tools/internal/hostenv"
)

// execute runs the CLI with the given args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return buf.String(), err
}

func TestTestModeCreatesConfig(t *testing.T) {
	t.Setenv("DAPLA_REGION", "DAPLA_LAB")

	path := filepath.Join(t.TempDir(), "gitconfig")

	out, err := execute(t, "--test", "--config", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Detected platform: dapla (citrix=false")
	assert.Contains(t, out, "Make sure your repos contain a .gitattributes file")
	assert.Contains(t, out, "*.ipynb filter=nbstripout")

	st, err := gitconfig.LoadStore(path)
	require.NoError(t, err)

	v, _ := st.Get("core.autocrlf")
	assert.Equal(t, "input", v)
	v, _ = st.Get("filter.nbstripout.clean")
	assert.Equal(t, "python3 -m nbstripout", v)
	v, _ = st.Get("user.name")
	assert.Equal(t, "John Doe", v)
	v, _ = st.Get("user.email")
	assert.Equal(t, "johndoe@example.com", v)
}

func TestTestModeIsIdempotent(t *testing.T) {
	t.Setenv("DAPLA_REGION", "BIP")

	td := t.TempDir()
	path := filepath.Join(td, "gitconfig")

	out, err := execute(t, "--test", "--config", path)
	require.NoError(t, err, out)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err = execute(t, "--test", "--config", path)
	require.NoError(t, err, out)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// neither run had anything to back up, and the second one had
	// nothing to write at all
	entries, err := os.ReadDir(td)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTestModePreservesIdentity(t *testing.T) {
	t.Setenv("DAPLA_REGION", "DAPLA_LAB")

	td := t.TempDir()
	path := filepath.Join(td, "gitconfig")
	require.NoError(t, os.WriteFile(path, []byte("[user]\n\tname = Kari Nordmann\n\temail = kari@ssb.no\n"), 0o600))

	out, err := execute(t, "--test", "--config", path)
	require.NoError(t, err, out)

	st, err := gitconfig.LoadStore(path)
	require.NoError(t, err)
	v, _ := st.Get("user.name")
	assert.Equal(t, "Kari Nordmann", v)
	v, _ = st.Get("user.email")
	assert.Equal(t, "kari@ssb.no", v)

	// the pre-existing config was backed up beside the store
	entries, err := os.ReadDir(td)
	require.NoError(t, err)
	var backups []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gitconfig_") {
			backups = append(backups, e.Name())
		}
	}
	require.Len(t, backups, 1)
	assert.Contains(t, out, "Backed up existing config")
}

func TestDryRunTouchesNothing(t *testing.T) {
	t.Setenv("DAPLA_REGION", "DAPLA_LAB")

	path := filepath.Join(t.TempDir(), "gitconfig")

	out, err := execute(t, "--dry-run", "--config", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Would apply")
	assert.Contains(t, out, "core.autocrlf = input")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "dry-run must not create the config")
}

func TestUnknownEnvironmentDeclinedChangesNothing(t *testing.T) {
	orig := collectSignals
	collectSignals = func() hostenv.Signals {
		return hostenv.NewSignals(hostenv.Signal{Kind: hostenv.KindOSIdentity, Key: "os", Value: "plan9", Present: true})
	}
	t.Cleanup(func() { collectSignals = orig })

	path := filepath.Join(t.TempDir(), "gitconfig")

	buf := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", path})
	// non-interactive, so the stand-alone fallback prompt answers with
	// its default (no)
	cmd.SetContext(ctxutil.WithInteractive(context.Background(), false))

	require.NoError(t, cmd.Execute(), buf.String())
	assert.Contains(t, buf.String(), "Detected platform: unknown")
	assert.Contains(t, buf.String(), "No changes were made.")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a declined run must not create the config")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "kvakk-git-tools version")
}
