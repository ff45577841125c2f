package reconcile

import (
	"fmt"
	"time"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/fsutil"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
)

// backupTimeFormat matches the suffix the tool has always used for
// .gitconfig backups, e.g. .gitconfig_240315_143022.
const backupTimeFormat = "060102_150405"

// Apply replays the plan's set actions into the store and persists the
// result with a single atomic flush. A plan without set actions is a
// complete no-op: no backup, no write.
//
// Before anything is written, the existing store file is copied once to a
// timestamped backup beside it, so pre-existing manual edits can always be
// recovered. The returned path is the backup location, or "" when no
// backup was taken.
//
// All failure paths leave the store file byte-identical to its pre-run
// state; write failures carry gitconfig.ErrStoreUnwritable.
func Apply(st *gitconfig.Store, p *Plan) (string, error) {
	if p.Sets() == 0 {
		debug.Log("plan has no set actions, nothing to do")

		return "", nil
	}

	backupPath, err := backup(st.Path())
	if err != nil {
		return "", err
	}

	for _, e := range p.Entries {
		if e.Action != ActionSet {
			continue
		}
		if err := st.Set(e.Key, e.Value); err != nil {
			return backupPath, fmt.Errorf("failed to set %s: %w", e.Key, err)
		}
	}

	if err := st.Flush(); err != nil {
		return backupPath, err
	}

	return backupPath, nil
}

// backup copies the store file to a timestamped sibling. A store that does
// not exist yet needs no backup.
func backup(path string) (string, error) {
	if path == "" || !fsutil.IsFile(path) {
		return "", nil
	}

	dst := path + "_" + time.Now().Format(backupTimeFormat)
	if err := fsutil.CopyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to back up %s to %s: %w", path, dst, err)
	}

	debug.Log("backed up %s to %s", path, dst)

	return dst, nil
}
