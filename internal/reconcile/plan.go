package reconcile

import (
	"fmt"
	"strings"

	"github.com/gopasspw/gopass/pkg/set"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
)

// Action is the planned treatment of one key.
type Action string

const (
	// ActionSet writes the desired value.
	ActionSet Action = "set"
	// ActionPreserve keeps an existing user-owned value. The plan records
	// the existing value, not the recommended one, for auditability.
	ActionPreserve Action = "preserve"
	// ActionSkip marks a store key no fragment knows about. Skips exist
	// for the dry-run report only, Apply never visits them.
	ActionSkip Action = "skip"
)

// PlanEntry is one planned change.
type PlanEntry struct {
	Key    string
	Action Action
	Value  string
}

// Plan is an ordered sequence of planned changes, computed in full before
// any mutation. This makes Apply a pure replay and gives dry-run a
// faithful preview.
type Plan struct {
	Entries []PlanEntry
}

// Sets returns the number of set actions in the plan.
func (p *Plan) Sets() int {
	var n int
	for _, e := range p.Entries {
		if e.Action == ActionSet {
			n++
		}
	}

	return n
}

// String renders the plan for the dry-run report.
func (p *Plan) String() string {
	var sb strings.Builder
	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "%-8s %s = %s\n", e.Action, e.Key, e.Value)
	}

	return sb.String()
}

// effectiveEntry is one key of the folded fragment sequence.
type effectiveEntry struct {
	key   string
	value string
	mode  recommend.Mode
}

// effective folds the fragment sequence left to right into a single
// ordered mapping. A later fragment replaces the whole entry on key
// collision, value and mutability both (the later mutability tag wins).
func effective(frags []recommend.Fragment) []effectiveEntry {
	out := make([]effectiveEntry, 0, 16)
	index := make(map[string]int, 16)

	for _, f := range frags {
		for _, e := range f.Entries {
			ee := effectiveEntry{key: e.Key, value: e.Value, mode: e.Mode}
			if i, found := index[e.Key]; found {
				out[i] = ee

				continue
			}
			index[e.Key] = len(out)
			out = append(out, ee)
		}
	}

	return out
}

// NewPlan computes the reconciliation plan for the store against the
// resolved fragments. The store is not mutated.
//
// Overwrite entries plan a set regardless of what the store holds, except
// when the store already holds exactly the desired value: that plans a
// preserve, which is what makes a second run a guaranteed no-op. If-absent
// entries preserve any existing non-empty value; with no existing value
// they plan a set, unless the desired value is itself empty (an identity
// field awaiting a prompt), which plans nothing and is left for the
// verifier to flag. Store keys untouched by any fragment become trailing
// skip entries.
func NewPlan(st *gitconfig.Store, frags []recommend.Fragment) *Plan {
	eff := effective(frags)

	p := &Plan{Entries: make([]PlanEntry, 0, len(eff))}
	planned := make(map[string]struct{}, len(eff))

	for _, e := range eff {
		planned[e.key] = struct{}{}

		switch e.mode {
		case recommend.ModeOverwrite:
			if existing, _ := st.Get(e.key); existing == e.value {
				p.Entries = append(p.Entries, PlanEntry{Key: e.key, Action: ActionPreserve, Value: existing})

				continue
			}
			p.Entries = append(p.Entries, PlanEntry{Key: e.key, Action: ActionSet, Value: e.value})
		case recommend.ModeIfAbsent:
			existing, _ := st.Get(e.key)
			if existing != "" {
				p.Entries = append(p.Entries, PlanEntry{Key: e.key, Action: ActionPreserve, Value: existing})

				continue
			}
			if e.value == "" {
				continue
			}
			p.Entries = append(p.Entries, PlanEntry{Key: e.key, Action: ActionSet, Value: e.value})
		}
	}

	// Untouched keys, recorded for display only.
	for _, k := range set.Sorted(st.Keys()) {
		if _, found := planned[k]; found {
			continue
		}
		v, _ := st.Get(k)
		p.Entries = append(p.Entries, PlanEntry{Key: k, Action: ActionSkip, Value: v})
	}

	return p
}
