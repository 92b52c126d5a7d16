// Package history maintains the version graph of a duc document.
//
// A graph holds full checkpoints and deltas. Each delta is a JSON Patch
// against the JSON projection of its parent version; any version is
// materialized by decoding the nearest checkpoint and applying the deltas
// between it and the target in order.
package history
