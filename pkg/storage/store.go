package storage

import (
	"context"
	"io"
)

// Store implementations know how to write entries to a K/V blob store.
//
// Typically this is something file system-like. Examples are S3, local FS, NFS, ...
// Implementations of this interface are assumed to be fairly simple and must be
// safe for concurrent use.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

const pipeBufferSize = 32 * 1024

// PipeIO copies the reader out onto the writer with a fixed size buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	buf := make([]byte, pipeBufferSize)
	return io.CopyBuffer(writer, reader, buf)
}
