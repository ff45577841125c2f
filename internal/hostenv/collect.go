package hostenv

import (
	"os"
	"runtime"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/fsutil"
)

// Marker files probed during collection. The production zone marker is
// dropped onto managed Linux hosts by the provisioning automation, the
// Dapla marker is baked into the notebook service images.
const (
	prodZoneMarker = "/etc/opt/prodzone"
	daplaMarker    = "/opt/dapla"
)

// Environment variables probed during collection.
var collectEnvVars = []string{
	"DAPLA_REGION",
	"SESSIONNAME",
	"USERDNSDOMAIN",
	"JUPYTER_IMAGE",
}

var collectMarkerFiles = []string{
	prodZoneMarker,
	daplaMarker,
}

// Collect gathers all host evidence for one run: operating system
// identity, the probed environment variables, the hostname, and the
// presence of the marker files. It only reads, never interprets, and it
// cannot fail: missing variables and files become absent signals.
func Collect() Signals {
	sigs := make([]Signal, 0, len(collectEnvVars)+len(collectMarkerFiles)+2)

	sigs = append(sigs, Signal{
		Kind:    KindOSIdentity,
		Key:     "os",
		Value:   runtime.GOOS,
		Present: true,
	})

	for _, key := range collectEnvVars {
		v, ok := os.LookupEnv(key)
		sigs = append(sigs, Signal{Kind: KindEnvVar, Key: key, Value: v, Present: ok})
	}

	host, err := os.Hostname()
	if err != nil {
		debug.Log("failed to read hostname: %s", err)
		host = ""
	}
	sigs = append(sigs, Signal{Kind: KindHostname, Key: "hostname", Value: host, Present: host != ""})

	for _, path := range collectMarkerFiles {
		sigs = append(sigs, Signal{Kind: KindFileExists, Key: path, Present: fsutil.IsFile(path)})
	}

	s := NewSignals(sigs...)
	debug.V(1).Log("collected signals: %s", s)

	return s
}
