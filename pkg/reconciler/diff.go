package reconciler

import (
	"strings"

	"github.com/oriolrius/nmctl/pkg/types"
)

// networkDiff returns the names of network attributes whose declared
// value differs from the remote one. Nil spec fields express no opinion
// and never count as a difference.
func networkDiff(actual *types.Network, spec *types.NetworkSpec) []string {
	if spec == nil {
		return nil
	}

	var changed []string

	strFields := []struct {
		name    string
		desired *string
		actual  string
	}{
		{"addressrange", spec.AddressRange, actual.AddressRange},
		{"addressrange6", spec.AddressRange6, actual.AddressRange6},
		{"defaultextclientdns", spec.DefaultExtClientDNS, actual.DefaultExtClientDNS},
		{"defaultinterface", spec.DefaultInterface, actual.DefaultInterface},
		{"defaultpostup", spec.DefaultPostUp, actual.DefaultPostUp},
		{"defaultpostdown", spec.DefaultPostDown, actual.DefaultPostDown},
	}
	for _, f := range strFields {
		if f.desired != nil && *f.desired != f.actual {
			changed = append(changed, f.name)
		}
	}

	if spec.DefaultKeepalive != nil && *spec.DefaultKeepalive != actual.DefaultKeepalive {
		changed = append(changed, "defaultkeepalive")
	}
	if spec.DefaultMTU != nil && *spec.DefaultMTU != actual.DefaultMTU {
		changed = append(changed, "defaultmtu")
	}
	if spec.IsLocal != nil && *spec.IsLocal != yesNo(actual.IsLocal) {
		changed = append(changed, "islocal")
	}

	return changed
}

// applyNetworkSpec writes the declared fields onto a network
// representation, leaving unspecified fields untouched
func applyNetworkSpec(network *types.Network, spec *types.NetworkSpec) {
	if spec == nil {
		return
	}
	if spec.AddressRange != nil {
		network.AddressRange = *spec.AddressRange
	}
	if spec.AddressRange6 != nil {
		network.AddressRange6 = *spec.AddressRange6
	}
	if spec.DefaultExtClientDNS != nil {
		network.DefaultExtClientDNS = *spec.DefaultExtClientDNS
	}
	if spec.DefaultInterface != nil {
		network.DefaultInterface = *spec.DefaultInterface
	}
	if spec.DefaultPostUp != nil {
		network.DefaultPostUp = *spec.DefaultPostUp
	}
	if spec.DefaultPostDown != nil {
		network.DefaultPostDown = *spec.DefaultPostDown
	}
	if spec.DefaultKeepalive != nil {
		network.DefaultKeepalive = *spec.DefaultKeepalive
	}
	if spec.DefaultMTU != nil {
		network.DefaultMTU = *spec.DefaultMTU
	}
	if spec.IsLocal != nil {
		if *spec.IsLocal {
			network.IsLocal = "yes"
		} else {
			network.IsLocal = "no"
		}
	}
}

// networkFromSpec builds a create payload from the declared attributes
func networkFromSpec(name string, spec *types.NetworkSpec) *types.Network {
	network := &types.Network{NetID: name}
	applyNetworkSpec(network, spec)
	return network
}

// extClientDiff returns the names of external client attributes whose
// declared value differs from the remote one. extraallowedips compares
// as a set; order coming back from the server is not significant.
func extClientDiff(actual *types.ExtClient, spec *types.ExtClientSpec) []string {
	var changed []string

	strFields := []struct {
		name    string
		desired *string
		actual  string
	}{
		{"dns", spec.DNS, actual.DNS},
		{"postup", spec.PostUp, actual.PostUp},
		{"postdown", spec.PostDown, actual.PostDown},
	}
	for _, f := range strFields {
		if f.desired != nil && *f.desired != f.actual {
			changed = append(changed, f.name)
		}
	}

	if spec.Enabled != nil && *spec.Enabled != actual.Enabled {
		changed = append(changed, "enabled")
	}
	if spec.ExtraAllowedIPs != nil && !sameSet(spec.ExtraAllowedIPs, actual.ExtraAllowedIPs) {
		changed = append(changed, "extraallowedips")
	}

	return changed
}

// applyExtClientSpec writes the declared fields onto a client
// representation, leaving unspecified (and server-assigned) fields
// untouched
func applyExtClientSpec(client *types.ExtClient, spec *types.ExtClientSpec) {
	if spec.DNS != nil {
		client.DNS = *spec.DNS
	}
	if spec.PostUp != nil {
		client.PostUp = *spec.PostUp
	}
	if spec.PostDown != nil {
		client.PostDown = *spec.PostDown
	}
	if spec.Enabled != nil {
		client.Enabled = *spec.Enabled
	}
	if spec.ExtraAllowedIPs != nil {
		client.ExtraAllowedIPs = spec.ExtraAllowedIPs
	}
}

// extClientFromSpec builds a create payload from the declared
// attributes. New clients default to enabled, matching the server.
func extClientFromSpec(name string, spec *types.ExtClientSpec) *types.ExtClient {
	client := &types.ExtClient{
		ClientID: name,
		Network:  spec.NetworkID,
		Enabled:  true,
	}
	applyExtClientSpec(client, spec)
	return client
}

// yesNo parses the legacy yes/no boolean strings used on the wire
func yesNo(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// sameSet compares two string slices ignoring order and duplicates
func sameSet(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	other := make(map[string]bool, len(b))
	for _, v := range b {
		other[v] = true
	}
	if len(seen) != len(other) {
		return false
	}
	for v := range seen {
		if !other[v] {
			return false
		}
	}
	return true
}
