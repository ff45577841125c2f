package hostenv

import (
	"fmt"
	"sort"
	"strings"
)

// Kind describes where a signal was observed.
type Kind string

const (
	KindFileExists Kind = "file-exists"
	KindEnvVar     Kind = "env-var"
	KindHostname   Kind = "hostname-pattern"
	KindOSIdentity Kind = "os-identity"
)

// Signal is a single immutable fact about the host. An absent value is
// itself informative and recorded as Present=false, never as an error.
type Signal struct {
	Kind    Kind
	Key     string
	Value   string
	Present bool
}

// Signals is the full set of evidence gathered for one run. It is
// collected once and never mutated, so classification stays consistent
// even if the underlying host state changes mid-run.
type Signals struct {
	list []Signal
}

// NewSignals builds a signal set from explicit signals. Collect is the
// normal source; building one directly is for replaying recorded
// evidence.
func NewSignals(sigs ...Signal) Signals {
	return Signals{list: sigs}
}

// Env returns the value of an env-var signal and whether it was set.
func (s Signals) Env(key string) (string, bool) {
	for _, sig := range s.list {
		if sig.Kind == KindEnvVar && sig.Key == key {
			return sig.Value, sig.Present
		}
	}

	return "", false
}

// File returns true if a file-exists signal was observed for the path.
func (s Signals) File(path string) bool {
	for _, sig := range s.list {
		if sig.Kind == KindFileExists && sig.Key == path {
			return sig.Present
		}
	}

	return false
}

// OS returns the observed operating system identity (runtime.GOOS).
func (s Signals) OS() string {
	for _, sig := range s.list {
		if sig.Kind == KindOSIdentity {
			return sig.Value
		}
	}

	return ""
}

// Hostname returns the observed hostname, or "" if it could not be read.
func (s Signals) Hostname() string {
	for _, sig := range s.list {
		if sig.Kind == KindHostname {
			return sig.Value
		}
	}

	return ""
}

// String renders a compact summary of the present signals, for the
// "Detected platform" report line and debug output.
func (s Signals) String() string {
	parts := make([]string, 0, len(s.list))
	for _, sig := range s.list {
		if !sig.Present {
			continue
		}
		switch sig.Kind {
		case KindOSIdentity:
			parts = append(parts, "os="+sig.Value)
		case KindHostname:
			parts = append(parts, "host="+sig.Value)
		case KindEnvVar:
			parts = append(parts, fmt.Sprintf("%s=%s", sig.Key, sig.Value))
		case KindFileExists:
			parts = append(parts, sig.Key)
		}
	}
	sort.Strings(parts)

	return strings.Join(parts, ", ")
}
