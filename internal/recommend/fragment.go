// Package recommend maps a detected environment to the ordered
// configuration fragments that should be reconciled into the user's git
// config. The fragment data is a static embedded document, loaded once
// and never mutated at runtime.
package recommend

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/statisticsnorway/kvakk-git-tools/internal/hostenv"
)

// Mode controls how the reconciler treats a key that is already present
// in the store.
type Mode string

const (
	// ModeOverwrite marks tooling-managed keys (filters, diff drivers,
	// credential cache) that are always brought to the recommended value.
	ModeOverwrite Mode = "overwrite"
	// ModeIfAbsent marks user-owned keys (identity) that are only set
	// when the store has no non-empty value for them.
	ModeIfAbsent Mode = "if-absent"
)

// Entry is one recommended key with its desired value and mutability.
type Entry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Mode  Mode   `yaml:"mode"`
}

// Category tags a fragment's origin.
type Category string

const (
	CategoryUniversal   Category = "universal"
	CategoryEnvironment Category = "environment"
)

// Fragment is a named, ordered set of recommended entries.
type Fragment struct {
	Name     string
	Category Category
	Entries  []Entry
}

//go:embed fragments.yaml
var fragmentsYAML []byte

type catalog struct {
	Universal    []Entry            `yaml:"universal"`
	Environments map[string][]Entry `yaml:"environments"`
}

var loadCatalog = sync.OnceValue(func() catalog {
	var c catalog
	if err := yaml.Unmarshal(fragmentsYAML, &c); err != nil {
		// the data is embedded, failing to parse it is a build defect
		panic(fmt.Sprintf("recommend: invalid fragment data: %s", err))
	}

	return c
})

// Resolve returns the fragments for the given environment, universal
// fragment first. Later fragments take precedence on key collision, so an
// environment fragment can override a universal default without repeating
// unrelated keys. EnvUnknown resolves to the universal fragment only.
func Resolve(env hostenv.Environment) []Fragment {
	c := loadCatalog()

	out := []Fragment{{
		Name:     "universal",
		Category: CategoryUniversal,
		Entries:  c.Universal,
	}}

	entries, found := c.Environments[string(env)]
	if !found {
		return out
	}

	return append(out, Fragment{
		Name:     string(env),
		Category: CategoryEnvironment,
		Entries:  entries,
	})
}

// WithIdentity returns a copy of the fragments with the values of the
// user.name and user.email entries replaced by the supplied identity.
// The if-absent mutability is kept, so an identity already present in the
// store still wins.
func WithIdentity(frags []Fragment, name, email string) []Fragment {
	out := make([]Fragment, len(frags))
	for i, f := range frags {
		entries := make([]Entry, len(f.Entries))
		copy(entries, f.Entries)
		for j, e := range entries {
			switch e.Key {
			case "user.name":
				entries[j].Value = name
			case "user.email":
				entries[j].Value = email
			}
		}
		f.Entries = entries
		out[i] = f
	}

	return out
}
