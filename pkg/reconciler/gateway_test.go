package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriolrius/nmctl/pkg/types"
)

// nodeLister is a minimal API stub for gateway resolution; only
// ListNodes is implemented
type nodeLister struct {
	API
	nodes []types.Node
	err   error
	calls int
}

func (n *nodeLister) ListNodes(ctx context.Context, netID string) ([]types.Node, error) {
	n.calls++
	return n.nodes, n.err
}

func TestResolveGateway_ExplicitIDPassesThrough(t *testing.T) {
	api := &nodeLister{}
	recon := NewReconciler(api, false)

	id, err := recon.resolveGateway(context.Background(), "iot-network", "node-x")
	require.NoError(t, err)
	assert.Equal(t, "node-x", id)
	assert.Zero(t, api.calls, "explicit selector must not list nodes")
}

func TestResolveGateway_AutoPicksLowestNodeID(t *testing.T) {
	api := &nodeLister{nodes: []types.Node{
		{ID: "node-c", Network: "iot-network", IsIngressGateway: true},
		{ID: "node-a", Network: "iot-network", IsIngressGateway: true},
		{ID: "node-b", Network: "iot-network"},
	}}
	recon := NewReconciler(api, false)

	// Stable across runs regardless of list order
	for i := 0; i < 3; i++ {
		id, err := recon.resolveGateway(context.Background(), "iot-network", types.GatewayAuto)
		require.NoError(t, err)
		assert.Equal(t, "node-a", id)
	}
}

func TestResolveGateway_EmptySelectorMeansAuto(t *testing.T) {
	api := &nodeLister{nodes: []types.Node{
		{ID: "node-a", Network: "iot-network", IsIngressGateway: true},
	}}
	recon := NewReconciler(api, false)

	id, err := recon.resolveGateway(context.Background(), "iot-network", "")
	require.NoError(t, err)
	assert.Equal(t, "node-a", id)
}

func TestResolveGateway_LegacyFlag(t *testing.T) {
	api := &nodeLister{nodes: []types.Node{
		{ID: "node-a", Network: "iot-network", IsGW: true},
	}}
	recon := NewReconciler(api, false)

	id, err := recon.resolveGateway(context.Background(), "iot-network", types.GatewayAuto)
	require.NoError(t, err)
	assert.Equal(t, "node-a", id)
}

func TestResolveGateway_NoGateway(t *testing.T) {
	api := &nodeLister{nodes: []types.Node{
		{ID: "node-a", Network: "iot-network"},
	}}
	recon := NewReconciler(api, false)

	_, err := recon.resolveGateway(context.Background(), "iot-network", types.GatewayAuto)
	var noGateway *NoGatewayError
	require.ErrorAs(t, err, &noGateway)
	assert.Equal(t, "iot-network", noGateway.Network)
}

func TestResolveGateway_EmptyNetwork(t *testing.T) {
	recon := NewReconciler(&nodeLister{}, false)

	_, err := recon.resolveGateway(context.Background(), "iot-network", types.GatewayAuto)
	var noGateway *NoGatewayError
	assert.ErrorAs(t, err, &noGateway)
}

func TestResolveGateway_ListErrorPropagates(t *testing.T) {
	listErr := errors.New("boom")
	recon := NewReconciler(&nodeLister{err: listErr}, false)

	_, err := recon.resolveGateway(context.Background(), "iot-network", types.GatewayAuto)
	assert.ErrorIs(t, err, listErr)
}
