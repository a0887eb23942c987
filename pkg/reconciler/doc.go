/*
Package reconciler converges declared Netmaker resources against remote state.

The reconciler is the decision core of nmctl. Given one DeclaredResource it
fetches the current remote state, compares it attribute by attribute with
the declared spec, and issues at most one converging API call:

	┌────────────────── RECONCILIATION RUN ──────────────────┐
	│                                                          │
	│  fetch by name ──────► absent ──► state=absent: no-op   │
	│        │                  │                              │
	│        │                  └─────► state=present: create │
	│        ▼                                                 │
	│     present ─────────► state=absent: delete             │
	│        │                                                 │
	│        └─────────────► state=present: diff              │
	│                           │                              │
	│                           ├── empty: no-op              │
	│                           └── non-empty: update (merge) │
	└─────────────────────────────────────────────────────────┘

Absence on fetch is a valid outcome, not a failure. Updates send the
server's representation with only the declared fields written over it, so
partial declarations never clobber unspecified remote attributes; that is
what makes repeated runs idempotent.

# Dry Run

A dry-run reconciler walks the identical decision path but replaces the
mutating call with a no-op. The reported changed verdict is the same as a
real run against the same remote state would produce.

# Ingress Gateway Discovery

External client creation needs an ingress gateway. The declared selector
is either an explicit node ID or "auto", which picks the
lowest-node-ID ingress-gateway-flagged node of the owning network (a
deterministic tie-break, stable across runs). A network without any
flagged node aborts the run with NoGatewayError.

# Error Policy

Validation problems fail before any network I/O. Every API failure other
than fetch-absence aborts the run and surfaces unchanged; the reconciler
never retries. Retry and batching belong to the orchestrating caller.
*/
package reconciler
