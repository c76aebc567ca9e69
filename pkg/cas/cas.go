package cas

import (
	"context"
	"io"

	"github.com/dagfs/dagfs/pkg/model"
)

// PutRes holds the result from a Put operation
type PutRes struct {
	Id      model.ContentId // content id of the accepted payload
	Written uint64          // payload bytes accepted by the store
	Found   bool            // the id was already present (deduplicated)
}

// Prototype is a reusable, immutable directory node base. The zero-link
// prototype is obtained once from the store and shared by every
// concurrent directory build; PutDirectoryNode never mutates it.
type Prototype struct {
	links []model.FileSystemLink
}

// Links yields a copy of the prototype's own links
func (p *Prototype) Links() []model.FileSystemLink {
	if p == nil || len(p.links) == 0 {
		return nil
	}
	out := make([]model.FileSystemLink, len(p.links))
	copy(out, p.links)
	return out
}

// Store implementations provide content-addressed persistence for file
// bytes and directory node descriptions.
//
// An id is returned only once the payload has been durably accepted by
// the backend: callers may treat any returned id as committed. Stores
// must be safe for concurrent use.
type Store interface {
	// PutBytes uploads a leaf payload and returns its content id and size
	PutBytes(ctx context.Context, src io.Reader) (PutRes, error)

	// PutDirectoryNode materializes a directory node from a base prototype
	// plus an ordered list of links
	PutDirectoryNode(ctx context.Context, base *Prototype, links []model.FileSystemLink) (PutRes, error)

	// EmptyDirectoryPrototype returns the reusable empty-directory base node.
	// The result may be cached and shared by the caller.
	EmptyDirectoryPrototype(ctx context.Context) (*Prototype, error)

	// GetBytes streams back the payload stored under id
	GetBytes(ctx context.Context, id model.ContentId) (io.ReadCloser, error)

	// GetNode decodes the directory node stored under id into its links
	GetNode(ctx context.Context, id model.ContentId) ([]model.FileSystemLink, error)
}
