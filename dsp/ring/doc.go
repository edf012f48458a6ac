// Package ring provides a fixed-capacity, multi-channel circular sample store.
//
// All index arithmetic goes through two primitives, [Buffer.Wrap] and
// [Buffer.ForwardDistance], which keep every position in [0, Len()).
// A Buffer has no internal synchronization; it is meant to be owned by a
// single audio callback.
package ring
