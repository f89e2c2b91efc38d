// Package quantity defines the value rules for inventory counting.
//
// During an inventory (departure or return) every material of an event
// carries three counts: the awaited quantity fixed by the booking, the
// actual quantity observed by the operator, and the broken quantity
// reported damaged among the actual ones.
//
// # Invariants
//
//   - 0 <= broken <= actual, always.
//   - 0 <= actual <= awaited, only under the strict policy (departure
//     inventories). Return inventories are lenient: overages are
//     informative, not invalid.
//
// # Normalization
//
// This package never rejects a value. Out-of-range candidates are
// clamped to the nearest bound; callers decide whether a clamp is worth
// logging. Unit-tracked materials additionally carry per-unit records
// (lost/broken flags) from which the aggregate counts are derived.
package quantity
