package hostenv

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/gopasspw/gopass/pkg/debug"
)

// Environment is the verdict of the classifier: one recognized deployment
// context per run.
type Environment string

const (
	EnvDapla           Environment = "dapla"
	EnvProdZoneLinux   Environment = "prod-linux"
	EnvProdZoneWindows Environment = "prod-windows"
	EnvAdminZone       Environment = "adm-zone"
	EnvStandAlone      Environment = "stand-alone"
	EnvUnknown         Environment = "unknown"
)

// Hostname and domain patterns identifying the network zones. Production
// zone Linux hosts are named sl-*, the admin zone domain controllers and
// workstations follow the aw-* scheme.
var (
	prodZoneHostPatterns = []string{"sl-*"}
	admZoneHostPatterns  = []string{"aw-*"}
	prodZoneDomains      = []string{"prod.ssb.no"}
	admZoneDomains       = []string{"adm.ssb.no"}
)

type rule struct {
	name    string
	verdict Environment
	match   func(Signals) bool
}

// rules is the classifier: an explicit priority list evaluated top to
// bottom, first match wins. Environments share signals (both production
// zone variants carry the same zone evidence), so order, not match count,
// resolves the ambiguity. Keep this a list, never a map.
var rules = []rule{
	{"dapla", EnvDapla, isDapla},
	{"prod-linux", EnvProdZoneLinux, func(s Signals) bool {
		return inProdZone(s) && s.OS() == "linux"
	}},
	{"prod-windows", EnvProdZoneWindows, func(s Signals) bool {
		// Citrix and VDI sessions get the same recommendation
		return inProdZone(s) && s.OS() == "windows"
	}},
	{"adm-zone", EnvAdminZone, inAdmZone},
	{"stand-alone", EnvStandAlone, func(s Signals) bool {
		switch s.OS() {
		case "linux", "windows", "darwin":
			return true
		}

		return false
	}},
}

// Classify maps a signal set to exactly one environment. It is total and
// deterministic: the same signals always produce the same verdict, and a
// signal set matching no rule yields EnvUnknown, never an error.
func Classify(s Signals) Environment {
	for _, r := range rules {
		if r.match(s) {
			debug.Log("rule %q matched", r.name)

			return r.verdict
		}
	}

	return EnvUnknown
}

func isDapla(s Signals) bool {
	if region, ok := s.Env("DAPLA_REGION"); ok {
		if region == "DAPLA_LAB" || region == "BIP" {
			return true
		}
	}

	return s.File(daplaMarker)
}

func inProdZone(s Signals) bool {
	return s.File(prodZoneMarker) ||
		matchAnyHost(prodZoneHostPatterns, s.Hostname()) ||
		matchAnyDomain(prodZoneDomains, s)
}

func inAdmZone(s Signals) bool {
	return matchAnyHost(admZoneHostPatterns, s.Hostname()) ||
		matchAnyDomain(admZoneDomains, s)
}

// IsCitrix reports whether the signals indicate a Citrix session. Only
// meaningful on Windows; recorded for the platform report.
func IsCitrix(s Signals) bool {
	session, ok := s.Env("SESSIONNAME")

	return ok && strings.Contains(session, "ICA")
}

func matchAnyHost(patterns []string, host string) bool {
	if host == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			debug.Log("invalid host pattern %q: %s", p, err)

			continue
		}
		if g.Match(host) {
			return true
		}
	}

	return false
}

func matchAnyDomain(domains []string, s Signals) bool {
	dnsDomain, _ := s.Env("USERDNSDOMAIN")
	dnsDomain = strings.ToLower(dnsDomain)
	host := strings.ToLower(s.Hostname())

	for _, d := range domains {
		if dnsDomain == d {
			return true
		}
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}

	return false
}
