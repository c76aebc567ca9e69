// Package status exports errors produced by the dag package.
package status

import (
	"github.com/dagfs/dagfs/pkg/errors"
)

var (
	// ErrNotFound indicates the path does not exist, or vanished before it could be opened
	ErrNotFound = errors.New("path not found")

	// ErrIO indicates a local read or enumeration failure
	ErrIO = errors.New("filesystem i/o failure")

	// ErrStore indicates the content store rejected or failed a call
	ErrStore = errors.New("content store failure")

	// ErrNoStore indicates a builder was constructed without a content store
	ErrNoStore = errors.New("a content store is required")

	// ErrInvalidParallelism indicates a non-positive concurrency bound
	ErrInvalidParallelism = errors.New("parallelism must be at least 1")
)
