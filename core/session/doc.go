// Package session implements the inventory-taking workflow for an
// event: loading the awaited quantities, reconciling operator input
// against them, and driving the draft/terminate lifecycle against a
// remote inventory API.
//
// # Reconciliation
//
// A Session owns one mutable quantity record per awaited material.
// SetActual and SetBroken normalize raw operator input through the
// quantity package and cascade between the two fields so that
// broken <= actual holds after every edit: lowering actual pulls
// broken down with it, raising broken above actual pulls actual up
// (marking more items broken than counted present implicitly marks
// them present). Unit-tracked materials are edited per unit instead;
// their aggregate counts are derived from the unit flags.
//
// # Lifecycle
//
//	draft -> saving -> draft              (save, success or failure)
//	draft -> terminating -> terminated    (terminate, success)
//	draft -> terminating -> draft         (terminate, failure)
//
// At most one save or terminate is in flight; concurrent calls are
// no-ops. A terminated session is permanently read-only. Failed
// operations keep all local edits and attach any field-level
// validation errors parsed from the API payload, so the operator can
// correct and retry.
//
// # Response fencing
//
// Each request carries a monotonic sequence number. Responses that
// arrive after the session was closed, or after a newer request was
// issued, are discarded instead of applied.
package session
