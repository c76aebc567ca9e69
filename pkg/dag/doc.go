// Package dag converts a local file tree into a content-addressed
// Merkle DAG.
//
// Files become leaf nodes, directories become nodes linking to their
// immediate children. Construction is bottom-up: all children of a
// directory are built concurrently and joined before the directory node
// itself is materialized through the content store. A child failure
// fails the whole enclosing build and cancels its in-flight siblings.
//
// Links are sorted by name before a directory node is materialized, so
// building an unchanged tree twice yields the same id for every node.
package dag
