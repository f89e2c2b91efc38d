// Package inventory serves the return-inventory API of events.
//
// It is the server side of the inventory-taking workflow: the session
// engine (core/session) runs against the endpoints this feature
// exposes, whether over HTTP (core/remote) or in-process.
//
// # HTTP Endpoints
//
//   - GET  /inventories/:id           : Return-inventory resource of an event.
//   - PUT  /inventories/:id           : Save a draft of the counted quantities.
//   - PUT  /inventories/:id/terminate : Close the inventory permanently.
//
// # Semantics
//
// Draft saves are repeatable and never lock the event. Terminate
// succeeds at most once: it locks the event, applies the stock effects
// (missing items leave the stock, broken ones become out-of-order) and
// archives a JSON snapshot to object storage in the background.
// Validation errors are answered as
// {"error":{"code":400,"details":{"<index>.<field>":["..."]}}}, the
// shape the sync client maps back into the session error model.
package inventory
