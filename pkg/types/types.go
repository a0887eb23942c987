package types

import "fmt"

// ResourceKind identifies the type of managed resource
type ResourceKind string

const (
	KindNetwork   ResourceKind = "network"
	KindExtClient ResourceKind = "extclient"
)

// State is the target lifecycle state of a declared resource
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// GatewayAuto selects automatic ingress gateway discovery for external clients
const GatewayAuto = "auto"

// DeclaredResource is the desired state supplied by the caller.
// Exactly one of Network or ExtClient is set, matching Kind.
type DeclaredResource struct {
	Kind      ResourceKind
	Name      string
	State     State
	Network   *NetworkSpec
	ExtClient *ExtClientSpec
}

// Validate checks the declared resource before any network I/O
func (r *DeclaredResource) Validate() error {
	if r.Name == "" {
		return &ValidationError{Reason: "name is required"}
	}

	switch r.State {
	case StatePresent, StateAbsent:
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown state %q", r.State)}
	}

	switch r.Kind {
	case KindNetwork:
		if r.ExtClient != nil {
			return &ValidationError{Reason: "network resource carries an extclient spec"}
		}
	case KindExtClient:
		if r.Network != nil {
			return &ValidationError{Reason: "extclient resource carries a network spec"}
		}
		if r.ExtClient == nil || r.ExtClient.NetworkID == "" {
			return &ValidationError{Reason: "extclient requires an owning network"}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown resource kind %q", r.Kind)}
	}

	return nil
}

// NetworkSpec holds the desired attributes of a mesh network.
// Nil fields express no opinion and are excluded from comparison,
// so partial declarations preserve unspecified remote values.
type NetworkSpec struct {
	AddressRange        *string `yaml:"addressrange,omitempty"`
	AddressRange6       *string `yaml:"addressrange6,omitempty"`
	DefaultExtClientDNS *string `yaml:"defaultextclientdns,omitempty"`
	DefaultInterface    *string `yaml:"defaultinterface,omitempty"`
	DefaultPostUp       *string `yaml:"defaultpostup,omitempty"`
	DefaultPostDown     *string `yaml:"defaultpostdown,omitempty"`
	DefaultKeepalive    *int    `yaml:"defaultkeepalive,omitempty"`
	DefaultMTU          *int    `yaml:"defaultmtu,omitempty"`
	IsLocal             *bool   `yaml:"islocal,omitempty"`
}

// ExtClientSpec holds the desired attributes of an external client device
type ExtClientSpec struct {
	// NetworkID is the owning network. Required.
	NetworkID string `yaml:"network"`

	// IngressGatewayID is an explicit node ID, or "auto" to discover
	// the first flagged ingress gateway. Only used on creation.
	IngressGatewayID string `yaml:"ingress_gateway_id,omitempty"`

	DNS             *string  `yaml:"dns,omitempty"`
	ExtraAllowedIPs []string `yaml:"extraallowedips,omitempty"`
	Enabled         *bool    `yaml:"enabled,omitempty"`
	PostUp          *string  `yaml:"postup,omitempty"`
	PostDown        *string  `yaml:"postdown,omitempty"`
}

// Network is the remote representation of a mesh network
type Network struct {
	NetID               string `json:"netid" yaml:"netid"`
	AddressRange        string `json:"addressrange,omitempty" yaml:"addressrange,omitempty"`
	AddressRange6       string `json:"addressrange6,omitempty" yaml:"addressrange6,omitempty"`
	DefaultExtClientDNS string `json:"defaultextclientdns,omitempty" yaml:"defaultextclientdns,omitempty"`
	DefaultInterface    string `json:"defaultinterface,omitempty" yaml:"defaultinterface,omitempty"`
	DefaultPostUp       string `json:"defaultpostup,omitempty" yaml:"defaultpostup,omitempty"`
	DefaultPostDown     string `json:"defaultpostdown,omitempty" yaml:"defaultpostdown,omitempty"`
	DefaultKeepalive    int    `json:"defaultkeepalive,omitempty" yaml:"defaultkeepalive,omitempty"`
	DefaultMTU          int    `json:"defaultmtu,omitempty" yaml:"defaultmtu,omitempty"`

	// IsLocal is a yes/no string on the wire, not a boolean
	IsLocal string `json:"islocal,omitempty" yaml:"islocal,omitempty"`

	NodesLastModified   int64 `json:"nodeslastmodified,omitempty" yaml:"nodeslastmodified,omitempty"`
	NetworkLastModified int64 `json:"networklastmodified,omitempty" yaml:"networklastmodified,omitempty"`
}

// ExtClient is the remote representation of an external client device
type ExtClient struct {
	ClientID               string   `json:"clientid" yaml:"clientid"`
	Network                string   `json:"network" yaml:"network"`
	Address                string   `json:"address,omitempty" yaml:"address,omitempty"`
	Address6               string   `json:"address6,omitempty" yaml:"address6,omitempty"`
	PublicKey              string   `json:"publickey,omitempty" yaml:"publickey,omitempty"`
	PrivateKey             string   `json:"privatekey,omitempty" yaml:"privatekey,omitempty"`
	DNS                    string   `json:"dns,omitempty" yaml:"dns,omitempty"`
	ExtraAllowedIPs        []string `json:"extraallowedips,omitempty" yaml:"extraallowedips,omitempty"`
	Enabled                bool     `json:"enabled" yaml:"enabled"`
	PostUp                 string   `json:"postup,omitempty" yaml:"postup,omitempty"`
	PostDown               string   `json:"postdown,omitempty" yaml:"postdown,omitempty"`
	IngressGatewayID       string   `json:"ingressgatewayid,omitempty" yaml:"ingressgatewayid,omitempty"`
	IngressGatewayEndpoint string   `json:"ingressgatewayendpoint,omitempty" yaml:"ingressgatewayendpoint,omitempty"`
	LastModified           int64    `json:"lastmodified,omitempty" yaml:"lastmodified,omitempty"`
}

// Node is a mesh node as returned by the node listing endpoint
type Node struct {
	ID      string `json:"id"`
	Network string `json:"network"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`

	// IsIngressGateway is the current flag; IsGW is the name used by
	// older servers. Either marks the node as an ingress gateway.
	IsIngressGateway bool `json:"isingressgateway"`
	IsGW             bool `json:"is_gw"`

	Connected bool `json:"connected,omitempty"`
}

// IngressGateway reports whether the node relays traffic for external clients
func (n *Node) IngressGateway() bool {
	return n.IsIngressGateway || n.IsGW
}

// Outcome is the structured result of one reconciliation
type Outcome struct {
	// Changed reports whether a converging mutation was (or, in dry-run
	// mode, would have been) issued
	Changed bool `json:"changed" yaml:"changed"`

	// Resource is the final remote snapshot; nil after deletion
	Resource any `json:"resource,omitempty" yaml:"resource,omitempty"`

	// Msg is a short human-readable summary
	Msg string `json:"msg" yaml:"msg"`
}
