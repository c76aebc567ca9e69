// Package model describes the content-addressed filesystem DAG:
// nodes, the named links between them, and the identifiers that
// address their content.
//
// Values in this package are plain data. They are produced by the
// tree builder, persisted through the content store and handed back
// to callers as immutable results.
package model
