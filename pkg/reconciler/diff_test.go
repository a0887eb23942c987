package reconciler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/oriolrius/nmctl/pkg/types"
)

// TestNetworkDiff tests attribute comparison for networks
func TestNetworkDiff(t *testing.T) {
	actual := &types.Network{
		NetID:            "iot-network",
		AddressRange:     "10.102.0.0/24",
		DefaultKeepalive: 20,
		DefaultMTU:       1420,
		IsLocal:          "no",
	}

	tests := []struct {
		name string
		spec *types.NetworkSpec
		want []string
	}{
		{
			name: "nil spec has no opinion",
			spec: nil,
			want: nil,
		},
		{
			name: "empty spec has no opinion",
			spec: &types.NetworkSpec{},
			want: nil,
		},
		{
			name: "matching fields",
			spec: &types.NetworkSpec{
				AddressRange: strPtr("10.102.0.0/24"),
				DefaultMTU:   intPtr(1420),
			},
			want: nil,
		},
		{
			name: "numeric field differs",
			spec: &types.NetworkSpec{DefaultMTU: intPtr(1380)},
			want: []string{"defaultmtu"},
		},
		{
			name: "several fields differ",
			spec: &types.NetworkSpec{
				AddressRange:     strPtr("10.200.0.0/24"),
				DefaultKeepalive: intPtr(25),
			},
			want: []string{"addressrange", "defaultkeepalive"},
		},
		{
			name: "empty desired string matches empty actual",
			spec: &types.NetworkSpec{DefaultPostUp: strPtr("")},
			want: nil,
		},
		{
			name: "islocal bool vs legacy no",
			spec: &types.NetworkSpec{IsLocal: boolPtr(false)},
			want: nil,
		},
		{
			name: "islocal bool vs legacy no differs",
			spec: &types.NetworkSpec{IsLocal: boolPtr(true)},
			want: []string{"islocal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, networkDiff(actual, tt.spec))
		})
	}
}

// TestNetworkDiffLegacyTrueString tests yes/true/1 truthiness parsing
func TestNetworkDiffLegacyTrueString(t *testing.T) {
	for _, value := range []string{"yes", "true", "1", "Yes", "TRUE"} {
		actual := &types.Network{NetID: "n", IsLocal: value}
		assert.Empty(t, networkDiff(actual, &types.NetworkSpec{IsLocal: boolPtr(true)}), "islocal=%q", value)
	}
}

// TestExtClientDiff tests attribute comparison for external clients
func TestExtClientDiff(t *testing.T) {
	actual := &types.ExtClient{
		ClientID:        "sensor-01",
		Network:         "iot-network",
		DNS:             "10.102.0.1",
		ExtraAllowedIPs: []string{"192.168.1.0/24", "192.168.2.0/24"},
		Enabled:         true,
	}

	tests := []struct {
		name string
		spec *types.ExtClientSpec
		want []string
	}{
		{
			name: "no opinion",
			spec: &types.ExtClientSpec{NetworkID: "iot-network"},
			want: nil,
		},
		{
			name: "matching",
			spec: &types.ExtClientSpec{
				NetworkID: "iot-network",
				DNS:       strPtr("10.102.0.1"),
				Enabled:   boolPtr(true),
			},
			want: nil,
		},
		{
			name: "allowed ips order-insensitive",
			spec: &types.ExtClientSpec{
				NetworkID:       "iot-network",
				ExtraAllowedIPs: []string{"192.168.2.0/24", "192.168.1.0/24"},
			},
			want: nil,
		},
		{
			name: "allowed ips differ",
			spec: &types.ExtClientSpec{
				NetworkID:       "iot-network",
				ExtraAllowedIPs: []string{"192.168.3.0/24"},
			},
			want: []string{"extraallowedips"},
		},
		{
			name: "disable",
			spec: &types.ExtClientSpec{NetworkID: "iot-network", Enabled: boolPtr(false)},
			want: []string{"enabled"},
		},
		{
			name: "dns and postup differ",
			spec: &types.ExtClientSpec{
				NetworkID: "iot-network",
				DNS:       strPtr("1.1.1.1"),
				PostUp:    strPtr("iptables -A FORWARD -j ACCEPT"),
			},
			want: []string{"dns", "postup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extClientDiff(actual, tt.spec))
		})
	}
}

// TestApplyNetworkSpec tests merging declared fields onto the remote
// representation
func TestApplyNetworkSpec(t *testing.T) {
	network := types.Network{
		NetID:               "iot-network",
		AddressRange:        "10.102.0.0/24",
		DefaultExtClientDNS: "10.102.0.1",
		DefaultMTU:          1420,
		IsLocal:             "no",
		NodesLastModified:   42,
	}

	merged := network
	applyNetworkSpec(&merged, &types.NetworkSpec{
		DefaultMTU: intPtr(1380),
		IsLocal:    boolPtr(true),
	})

	want := network
	want.DefaultMTU = 1380
	want.IsLocal = "yes"

	assert.Empty(t, cmp.Diff(want, merged))
}

func TestExtClientFromSpecDefaultsEnabled(t *testing.T) {
	client := extClientFromSpec("sensor-01", &types.ExtClientSpec{NetworkID: "iot-network"})
	assert.True(t, client.Enabled)

	disabled := extClientFromSpec("sensor-01", &types.ExtClientSpec{
		NetworkID: "iot-network",
		Enabled:   boolPtr(false),
	})
	assert.False(t, disabled.Enabled)
}

func TestSameSet(t *testing.T) {
	assert.True(t, sameSet(nil, nil))
	assert.True(t, sameSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.True(t, sameSet([]string{"a", "a"}, []string{"a"}))
	assert.False(t, sameSet([]string{"a"}, []string{"a", "b"}))
	assert.False(t, sameSet([]string{"a"}, nil))
}
