package reconciler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oriolrius/nmctl/pkg/log"
	"github.com/oriolrius/nmctl/pkg/metrics"
	"github.com/oriolrius/nmctl/pkg/netmaker"
	"github.com/oriolrius/nmctl/pkg/types"
)

// API is the slice of the Netmaker client the reconciler consumes
type API interface {
	GetNetwork(ctx context.Context, netID string) (*types.Network, error)
	CreateNetwork(ctx context.Context, network *types.Network) (*types.Network, error)
	UpdateNetwork(ctx context.Context, netID string, network *types.Network) (*types.Network, error)
	DeleteNetwork(ctx context.Context, netID string) error

	ListNodes(ctx context.Context, netID string) ([]types.Node, error)

	GetExtClient(ctx context.Context, netID, clientID string) (*types.ExtClient, error)
	CreateExtClient(ctx context.Context, netID, gatewayID string, client *types.ExtClient) (*types.ExtClient, error)
	UpdateExtClient(ctx context.Context, netID, clientID string, client *types.ExtClient) (*types.ExtClient, error)
	DeleteExtClient(ctx context.Context, netID, clientID string) error
}

// Reconciler converges one declared resource against remote state.
// With dryRun set, the decision logic is identical but the converging
// mutation is skipped; the reported changed value is the same either way.
type Reconciler struct {
	api    API
	dryRun bool
	logger zerolog.Logger
}

// NewReconciler creates a reconciler over the given API
func NewReconciler(api API, dryRun bool) *Reconciler {
	return &Reconciler{
		api:    api,
		dryRun: dryRun,
		logger: log.WithComponent("reconciler"),
	}
}

// Reconcile fetches the actual state of the declared resource and issues
// at most one create/update/delete call to converge it. Any API failure
// other than fetch-absence aborts the run unchanged; there are no
// internal retries.
func (r *Reconciler) Reconcile(ctx context.Context, res types.DeclaredResource) (*types.Outcome, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconciliationDuration.WithLabelValues(string(res.Kind)))

	switch res.Kind {
	case types.KindNetwork:
		return r.reconcileNetwork(ctx, res)
	default:
		return r.reconcileExtClient(ctx, res)
	}
}

func (r *Reconciler) reconcileNetwork(ctx context.Context, res types.DeclaredResource) (*types.Outcome, error) {
	logger := r.logger.With().Str("network", res.Name).Logger()

	existing, err := r.api.GetNetwork(ctx, res.Name)
	if err != nil && !netmaker.IsNotFound(err) {
		return nil, err
	}
	present := err == nil

	switch {
	case res.State == types.StateAbsent && !present:
		r.record(res.Kind, "unchanged")
		return &types.Outcome{Msg: fmt.Sprintf("network %q already absent", res.Name)}, nil

	case res.State == types.StateAbsent:
		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Msg: fmt.Sprintf("network %q would be deleted (dry run)", res.Name)}, nil
		}
		if err := r.api.DeleteNetwork(ctx, res.Name); err != nil {
			return nil, err
		}
		logger.Info().Msg("network deleted")
		r.record(res.Kind, "deleted")
		return &types.Outcome{Changed: true, Msg: fmt.Sprintf("network %q deleted", res.Name)}, nil

	case !present:
		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Msg: fmt.Sprintf("network %q would be created (dry run)", res.Name)}, nil
		}
		created, err := r.api.CreateNetwork(ctx, networkFromSpec(res.Name, res.Network))
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("network created")
		r.record(res.Kind, "created")
		return &types.Outcome{Changed: true, Resource: created, Msg: fmt.Sprintf("network %q created", res.Name)}, nil

	default:
		diff := networkDiff(existing, res.Network)
		if len(diff) == 0 {
			r.record(res.Kind, "unchanged")
			return &types.Outcome{Resource: existing, Msg: fmt.Sprintf("network %q already up to date", res.Name)}, nil
		}

		logger.Debug().Strs("fields", diff).Msg("network differs from declared state")

		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Resource: existing, Msg: fmt.Sprintf("network %q would be updated (dry run)", res.Name)}, nil
		}

		// Changed fields merged onto the server's representation, so
		// unspecified remote attributes survive the update
		merged := *existing
		applyNetworkSpec(&merged, res.Network)

		updated, err := r.api.UpdateNetwork(ctx, res.Name, &merged)
		if err != nil {
			return nil, err
		}
		logger.Info().Strs("fields", diff).Msg("network updated")
		r.record(res.Kind, "updated")
		return &types.Outcome{Changed: true, Resource: updated, Msg: fmt.Sprintf("network %q updated", res.Name)}, nil
	}
}

func (r *Reconciler) reconcileExtClient(ctx context.Context, res types.DeclaredResource) (*types.Outcome, error) {
	spec := res.ExtClient
	logger := r.logger.With().Str("network", spec.NetworkID).Str("client", res.Name).Logger()

	existing, err := r.api.GetExtClient(ctx, spec.NetworkID, res.Name)
	if err != nil && !netmaker.IsNotFound(err) {
		return nil, err
	}
	present := err == nil

	switch {
	case res.State == types.StateAbsent && !present:
		r.record(res.Kind, "unchanged")
		return &types.Outcome{Msg: fmt.Sprintf("external client %q already absent", res.Name)}, nil

	case res.State == types.StateAbsent:
		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Msg: fmt.Sprintf("external client %q would be deleted (dry run)", res.Name)}, nil
		}
		if err := r.api.DeleteExtClient(ctx, spec.NetworkID, res.Name); err != nil {
			return nil, err
		}
		logger.Info().Msg("external client deleted")
		r.record(res.Kind, "deleted")
		return &types.Outcome{Changed: true, Msg: fmt.Sprintf("external client %q deleted", res.Name)}, nil

	case !present:
		// Gateway resolution is a read, so it runs in dry-run mode too:
		// a missing gateway is a hard precondition and the dry run must
		// surface it just like the real run would
		gatewayID, err := r.resolveGateway(ctx, spec.NetworkID, spec.IngressGatewayID)
		if err != nil {
			return nil, err
		}

		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Msg: fmt.Sprintf("external client %q would be created (dry run)", res.Name)}, nil
		}

		created, err := r.api.CreateExtClient(ctx, spec.NetworkID, gatewayID, extClientFromSpec(res.Name, spec))
		if err != nil {
			return nil, err
		}
		if created == nil {
			// Server returned an empty body; fetch the canonical state
			created, err = r.api.GetExtClient(ctx, spec.NetworkID, res.Name)
			if err != nil && !netmaker.IsNotFound(err) {
				return nil, err
			}
		}
		logger.Info().Str("gateway", gatewayID).Msg("external client created")
		r.record(res.Kind, "created")
		return &types.Outcome{Changed: true, Resource: created, Msg: fmt.Sprintf("external client %q created", res.Name)}, nil

	default:
		diff := extClientDiff(existing, spec)
		if len(diff) == 0 {
			r.record(res.Kind, "unchanged")
			return &types.Outcome{Resource: existing, Msg: fmt.Sprintf("external client %q already up to date", res.Name)}, nil
		}

		logger.Debug().Strs("fields", diff).Msg("external client differs from declared state")

		if r.dryRun {
			r.record(res.Kind, "dry-run")
			return &types.Outcome{Changed: true, Resource: existing, Msg: fmt.Sprintf("external client %q would be updated (dry run)", res.Name)}, nil
		}

		merged := *existing
		applyExtClientSpec(&merged, spec)

		updated, err := r.api.UpdateExtClient(ctx, spec.NetworkID, res.Name, &merged)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			updated, err = r.api.GetExtClient(ctx, spec.NetworkID, res.Name)
			if err != nil && !netmaker.IsNotFound(err) {
				return nil, err
			}
		}
		logger.Info().Strs("fields", diff).Msg("external client updated")
		r.record(res.Kind, "updated")
		return &types.Outcome{Changed: true, Resource: updated, Msg: fmt.Sprintf("external client %q updated", res.Name)}, nil
	}
}

func (r *Reconciler) record(kind types.ResourceKind, action string) {
	metrics.ReconciliationsTotal.WithLabelValues(string(kind), action).Inc()
}
