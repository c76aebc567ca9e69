// Package resolve walks content paths against a built DAG.
//
// Given a root directory node and a slash-separated relative path, the
// resolver descends link by link through the content store and returns
// either the structural metadata of the target or, for files, its byte
// stream. Decoded directory nodes are cached, keyed by content id:
// nodes are immutable so the cache never needs invalidation.
package resolve

import (
	"context"
	"io"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/dag/status"
	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/model"
	storagestatus "github.com/dagfs/dagfs/pkg/storage/status"
)

// DefaultCacheSize is the default number of decoded directory nodes kept in memory
const DefaultCacheSize = 1000

// Option to configure a resolver
type Option func(*Resolver)

// Logger sets a logger on the resolver
func Logger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.l = l
		}
	}
}

// CacheSize overrides the size of the decoded-node cache
func CacheSize(n int) Option {
	return func(r *Resolver) {
		r.cacheSize = n
	}
}

// Resolver resolves content paths against directory nodes
type Resolver struct {
	store     cas.Store
	cache     *lru.Cache
	cacheSize int
	l         *zap.Logger
}

// New creates a resolver over a content store
func New(store cas.Store, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, status.ErrNoStore
	}
	r := &Resolver{
		store:     store,
		cacheSize: DefaultCacheSize,
		l:         dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(r)
	}
	cache, err := lru.New(r.cacheSize)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

func (r *Resolver) links(ctx context.Context, id model.ContentId) ([]model.FileSystemLink, error) {
	if cached, ok := r.cache.Get(id.String()); ok {
		return cached.([]model.FileSystemLink), nil
	}
	links, err := r.store.GetNode(ctx, id)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNotFound.WrapMessage("node %s", id)
		}
		return nil, status.ErrStore.WrapMessage("node %s: %w", id, err)
	}
	r.l.Debug("decoded directory node", zap.Stringer("id", id), zap.Int("links", len(links)))
	r.cache.Add(id.String(), links)
	return links, nil
}

// ResolveNode walks path from root and returns the node it addresses.
// An empty path (or ".") resolves to root itself.
func (r *Resolver) ResolveNode(ctx context.Context, root model.FileSystemNode, path string) (model.FileSystemNode, error) {
	current := root
	for _, segment := range splitPath(path) {
		if !current.IsDirectory {
			return model.FileSystemNode{}, status.ErrNotFound.WrapMessage("%q is a file, cannot descend into %q", current.Name, segment)
		}

		links := current.Links
		if links == nil {
			var err error
			links, err = r.links(ctx, current.Id)
			if err != nil {
				return model.FileSystemNode{}, err
			}
		}

		next, ok := findLink(links, segment)
		if !ok {
			return model.FileSystemNode{}, status.ErrNotFound.WrapMessage("no entry %q under %q", segment, current.Name)
		}

		current = model.FileSystemNode{
			Id:          next.Id,
			Name:        next.Name,
			Size:        next.Size,
			IsDirectory: next.IsDirectory,
		}
	}

	// a resolved directory always carries its links
	if current.IsDirectory && current.Links == nil {
		links, err := r.links(ctx, current.Id)
		if err != nil {
			return model.FileSystemNode{}, err
		}
		current.Links = links
	}
	return current, nil
}

// ReadFile resolves path to a file and streams its bytes back
func (r *Resolver) ReadFile(ctx context.Context, root model.FileSystemNode, path string) (io.ReadCloser, error) {
	node, err := r.ResolveNode(ctx, root, path)
	if err != nil {
		return nil, err
	}
	if node.IsDirectory {
		return nil, status.ErrNotFound.WrapMessage("%q is a directory", path)
	}
	rdr, err := r.store.GetBytes(ctx, node.Id)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNotFound.WrapMessage("payload %s", node.Id)
		}
		return nil, status.ErrStore.WrapMessage("payload %s: %w", node.Id, err)
	}
	return rdr, nil
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s == "" || s == "." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func findLink(links []model.FileSystemLink, name string) (model.FileSystemLink, bool) {
	for _, link := range links {
		if link.Name == name {
			return link, true
		}
	}
	return model.FileSystemLink{}, false
}
