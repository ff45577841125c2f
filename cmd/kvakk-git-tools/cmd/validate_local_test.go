package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
)

func TestValidateLocalCompliantRepo(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(td, ".gitignore"), []byte(recommend.Gitignore()+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(td, ".gitattributes"), []byte(recommend.Gitattributes()+"\n"), 0o600))

	out, err := execute(t, "validate-local", td)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Local git files follow the recommendations.")
}

func TestValidateLocalDriftedRepoFails(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(td, ".gitignore"), []byte("# nothing here\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(td, ".gitattributes"), []byte(recommend.Gitattributes()+"\n"), 0o600))

	out, err := execute(t, "validate-local", td)
	require.Error(t, err)
	assert.Contains(t, out, ".gitignore is missing recommended lines:")
	assert.Contains(t, out, ".ipynb_checkpoints/")
	assert.Contains(t, out, "WARNING: Local git files do not follow the recommendations.")
	assert.NotContains(t, out, ".gitattributes is missing")
}

func TestValidateLocalMissingFilesFails(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "validate-local", t.TempDir())
	require.Error(t, err, out)
	assert.Contains(t, err.Error(), "does not exist")
}
