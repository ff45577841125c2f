package reconcile

import (
	"fmt"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
)

// Discrepancy is one key that does not comply with the recommendation.
type Discrepancy struct {
	Key  string
	Want string
	Got  string
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: want %q, got %q", d.Key, d.Want, d.Got)
}

// Verify checks the store against the resolved fragments, using the same
// effective mapping as the planner. Overwrite keys must match the
// recommended value exactly; if-absent keys must hold any non-empty value.
// A nil return means full compliance.
//
// Callers decide severity: the interactive surface reports discrepancies
// and carries on, the test and validate surfaces treat any as fatal.
func Verify(st *gitconfig.Store, frags []recommend.Fragment) []Discrepancy {
	var ds []Discrepancy

	for _, e := range effective(frags) {
		got, _ := st.Get(e.key)

		switch e.mode {
		case recommend.ModeOverwrite:
			if got != e.value {
				ds = append(ds, Discrepancy{Key: e.key, Want: e.value, Got: got})
			}
		case recommend.ModeIfAbsent:
			if got == "" {
				ds = append(ds, Discrepancy{Key: e.key, Want: "<non-empty>", Got: ""})
			}
		}
	}

	return ds
}
