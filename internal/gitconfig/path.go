package gitconfig

import (
	"path/filepath"

	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/fsutil"
)

// DefaultPath returns the location of the per-user ("global") git config.
//
// Git consults $XDG_CONFIG_HOME/git/config before ~/.gitconfig, but only
// ever writes new keys to the latter unless the former already exists. We
// mirror that: the XDG location is used if present, otherwise ~/.gitconfig
// (which may not exist yet).
func DefaultPath() string {
	if p := filepath.Join(appdir.New("git").UserConfig(), "config"); fsutil.IsFile(p) {
		debug.V(1).Log("using XDG config at %s", p)

		return p
	}

	return filepath.Join(appdir.UserHome(), ".gitconfig")
}
