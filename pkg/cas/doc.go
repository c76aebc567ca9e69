// Package cas implements the content store the tree builder assembles
// DAG nodes through.
//
// A leaf upload streams bytes into the backend blob store and yields the
// content id derived from them. A directory node upload materializes a
// link list into a deterministic payload and stores it the same way.
// Identical payloads always land on the same id, so repeated uploads of
// unchanged content deduplicate for free.
package cas
