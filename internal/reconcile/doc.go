// Package reconcile implements the metadata reconciliation engine: deriving a
// search query from a scene, narrowing the candidate set returned by the
// metadata source to at most one match, resolving performer, studio, and tag
// identity against the catalog snapshot, and building an idempotent scene
// update that merges external data without clobbering existing state.
package reconcile
