/*
Package types defines the core data model shared across nmctl.

A DeclaredResource captures the caller's desired state for one resource:
either a mesh network or an external client device, targeted at being
present or absent. Desired attributes live in kind-specific spec structs
whose optional fields are pointers; a nil field means "no opinion" and is
never treated as a difference, which is what makes repeated partial
declarations idempotent.

Network, ExtClient and Node mirror the Netmaker wire representation,
including legacy quirks (islocal as a yes/no string, the is_gw alias for
the ingress gateway flag on older servers).

Outcome is the structured result of a reconciliation: whether anything
changed, the final remote snapshot, and a short message.
*/
package types
