package recommend

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopasspw/gopass/pkg/fsutil"
	"github.com/gopasspw/gopass/pkg/set"
)

// Baseline content for the repo-local git support files. Like the
// fragment catalog this is static embedded data.
var (
	//go:embed recommended/gitignore
	recommendedGitignore string

	//go:embed recommended/gitattributes
	recommendedGitattributes string
)

// Gitattributes returns the recommended content of a repository's
// .gitattributes file, for printing after the config has been applied.
func Gitattributes() string {
	return strings.TrimRight(recommendedGitattributes, "\n")
}

// Gitignore returns the recommended content of a repository's
// .gitignore file.
func Gitignore() string {
	return strings.TrimRight(recommendedGitignore, "\n")
}

// LocalFileReport lists the recommended lines a repo-local git file
// lacks.
type LocalFileReport struct {
	File    string
	Missing []string
}

// ValidateLocalFiles checks the .gitignore and .gitattributes of the
// repository at dir against the recommended baselines. Every recommended
// line must be present, extra local lines are fine. Only files with
// missing lines are reported, so an empty result means both files are
// compliant. Both files must exist.
func ValidateLocalFiles(dir string) ([]LocalFileReport, error) {
	checks := []struct {
		name        string
		recommended string
	}{
		{".gitignore", recommendedGitignore},
		{".gitattributes", recommendedGitattributes},
	}

	var reports []LocalFileReport
	for _, c := range checks {
		path := filepath.Join(dir, c.name)
		if !fsutil.IsFile(path) {
			return nil, fmt.Errorf("%s does not exist", path)
		}
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if missing := missingLines(c.recommended, string(buf)); len(missing) > 0 {
			reports = append(reports, LocalFileReport{File: c.name, Missing: missing})
		}
	}

	return reports, nil
}

// missingLines returns the lines of recommended that local lacks.
// Comments and blank lines carry no configuration and are ignored on
// both sides, and ordering does not matter.
func missingLines(recommended, local string) []string {
	have := set.Map(configLines(local))

	var missing []string
	for _, line := range configLines(recommended) {
		if !have[line] {
			missing = append(missing, line)
		}
	}

	return missing
}

func configLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}

	return out
}
