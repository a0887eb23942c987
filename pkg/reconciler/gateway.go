package reconciler

import (
	"context"
	"fmt"
	"sort"

	"github.com/oriolrius/nmctl/pkg/types"
)

// NoGatewayError reports that a network has no node flagged as an
// ingress gateway. Creating an external client is impossible without
// one, so reconciliation aborts rather than proceed with an invalid
// gateway reference.
type NoGatewayError struct {
	Network string
}

func (e *NoGatewayError) Error() string {
	return fmt.Sprintf("no ingress gateway found in network %q", e.Network)
}

// resolveGateway turns the declared ingress-gateway selector into a node
// ID. An explicit ID passes through untouched; the "auto" sentinel lists
// the network's nodes and picks among those flagged as ingress gateways.
//
// Tie-break: the lowest node ID wins. Node IDs are stable, so repeated
// runs against the same remote state resolve to the same gateway even if
// the server returns the list in a different order.
func (r *Reconciler) resolveGateway(ctx context.Context, netID, selector string) (string, error) {
	if selector != "" && selector != types.GatewayAuto {
		return selector, nil
	}

	nodes, err := r.api.ListNodes(ctx, netID)
	if err != nil {
		return "", err
	}

	var gateways []string
	for i := range nodes {
		if nodes[i].IngressGateway() {
			gateways = append(gateways, nodes[i].ID)
		}
	}
	if len(gateways) == 0 {
		return "", &NoGatewayError{Network: netID}
	}

	sort.Strings(gateways)
	return gateways[0], nil
}
