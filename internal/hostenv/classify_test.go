package hostenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// synth builds a synthetic signal set for classifier tests.
func synth(osName, host string, env map[string]string, files ...string) Signals {
	list := []Signal{
		{Kind: KindOSIdentity, Key: "os", Value: osName, Present: true},
		{Kind: KindHostname, Key: "hostname", Value: host, Present: host != ""},
	}
	for k, v := range env {
		list = append(list, Signal{Kind: KindEnvVar, Key: k, Value: v, Present: true})
	}
	for _, f := range files {
		list = append(list, Signal{Kind: KindFileExists, Key: f, Present: true})
	}

	return Signals{list: list}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		signals Signals
		want    Environment
	}{
		{
			name:    "dapla lab",
			signals: synth("linux", "jupyter-0", map[string]string{"DAPLA_REGION": "DAPLA_LAB"}),
			want:    EnvDapla,
		},
		{
			name:    "dapla bip",
			signals: synth("linux", "jupyter-0", map[string]string{"DAPLA_REGION": "BIP"}),
			want:    EnvDapla,
		},
		{
			name:    "dapla marker file",
			signals: synth("linux", "jupyter-0", nil, daplaMarker),
			want:    EnvDapla,
		},
		{
			name:    "dapla region unrecognized",
			signals: synth("linux", "laptop", map[string]string{"DAPLA_REGION": "ONPREM"}),
			want:    EnvStandAlone,
		},
		{
			name:    "prod zone linux by hostname",
			signals: synth("linux", "sl-worker-12", nil),
			want:    EnvProdZoneLinux,
		},
		{
			name:    "prod zone linux by fqdn suffix",
			signals: synth("linux", "jupyter.prod.ssb.no", nil),
			want:    EnvProdZoneLinux,
		},
		{
			name:    "prod zone linux by marker file",
			signals: synth("linux", "worker-3", nil, prodZoneMarker),
			want:    EnvProdZoneLinux,
		},
		{
			name:    "prod zone windows citrix",
			signals: synth("windows", "sl-ts-01", map[string]string{"SESSIONNAME": "ICA-TCP#4"}),
			want:    EnvProdZoneWindows,
		},
		{
			name:    "prod zone windows vdi",
			signals: synth("windows", "client-22", map[string]string{"USERDNSDOMAIN": "PROD.SSB.NO"}),
			want:    EnvProdZoneWindows,
		},
		{
			name:    "adm zone by hostname",
			signals: synth("windows", "aw-ws-104", nil),
			want:    EnvAdminZone,
		},
		{
			name:    "adm zone by domain",
			signals: synth("darwin", "macbook", map[string]string{"USERDNSDOMAIN": "adm.ssb.no"}),
			want:    EnvAdminZone,
		},
		{
			name:    "stand alone linux",
			signals: synth("linux", "laptop", nil),
			want:    EnvStandAlone,
		},
		{
			name:    "stand alone mac",
			signals: synth("darwin", "macbook", nil),
			want:    EnvStandAlone,
		},
		{
			name:    "stand alone without hostname",
			signals: synth("windows", "", nil),
			want:    EnvStandAlone,
		},
		{
			name:    "unknown os",
			signals: synth("plan9", "cpu", nil),
			want:    EnvUnknown,
		},
		{
			name:    "dapla wins over prod zone evidence",
			signals: synth("linux", "sl-worker-12", map[string]string{"DAPLA_REGION": "BIP"}, prodZoneMarker),
			want:    EnvDapla,
		},
		{
			name:    "prod zone wins over adm zone evidence",
			signals: synth("linux", "sl-worker-12", map[string]string{"USERDNSDOMAIN": "adm.ssb.no"}),
			want:    EnvProdZoneLinux,
		},
	}

	known := map[Environment]bool{
		EnvDapla:           true,
		EnvProdZoneLinux:   true,
		EnvProdZoneWindows: true,
		EnvAdminZone:       true,
		EnvStandAlone:      true,
		EnvUnknown:         true,
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tc.signals)
			assert.Equal(t, tc.want, got)
			assert.True(t, known[got], "verdict outside the closed set")

			// same signal set, same verdict, always
			assert.Equal(t, got, Classify(tc.signals))
		})
	}
}

func TestIsCitrix(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCitrix(synth("windows", "sl-ts-01", map[string]string{"SESSIONNAME": "ICA-TCP#4"})))
	assert.False(t, IsCitrix(synth("windows", "sl-ts-01", map[string]string{"SESSIONNAME": "Console"})))
	assert.False(t, IsCitrix(synth("windows", "sl-ts-01", nil)))
}

func TestSignalsString(t *testing.T) {
	t.Parallel()

	s := synth("linux", "sl-worker-12", map[string]string{"DAPLA_REGION": "BIP"})
	out := s.String()

	assert.Contains(t, out, "os=linux")
	assert.Contains(t, out, "host=sl-worker-12")
	assert.Contains(t, out, "DAPLA_REGION=BIP")

	// absent signals stay out of the summary
	s = Signals{list: []Signal{{Kind: KindEnvVar, Key: "DAPLA_REGION", Present: false}}}
	assert.Empty(t, s.String())
}
