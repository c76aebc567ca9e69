package dag

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/dag/status"
	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/model"
)

// Builder assembles file trees into content-addressed DAG nodes.
//
// A Builder is safe for concurrent use: it holds no per-build state
// beyond the shared read-only empty-directory prototype.
type Builder struct {
	store       cas.Store
	fs          afero.Fs
	maxParallel int
	l           *zap.Logger

	protoMu sync.Mutex
	proto   *cas.Prototype
}

// New creates a tree builder over a content store
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		fs:          afero.NewOsFs(),
		maxParallel: 2 * runtime.NumCPU(),
		l:           dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(b)
	}
	if b.store == nil {
		return nil, status.ErrNoStore
	}
	if b.maxParallel < 1 {
		return nil, status.ErrInvalidParallelism.WrapMessage("got %d", b.maxParallel)
	}
	return b, nil
}

// Build converts the file or directory at path into a DAG node,
// uploading all content it covers as a side effect. For a directory,
// recursive controls whether sub-directories are descended into or left
// out of the resulting link list entirely.
func (b *Builder) Build(ctx context.Context, path string, recursive bool) (model.FileSystemNode, error) {
	fi, err := b.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.FileSystemNode{}, status.ErrNotFound.WrapMessage("stat %q", path)
		}
		return model.FileSystemNode{}, status.ErrIO.WrapMessage("stat %q: %w", path, err)
	}

	var node model.FileSystemNode
	if fi.IsDir() {
		node, err = b.BuildDirectory(ctx, path, recursive)
	} else {
		node, err = b.BuildFile(ctx, path)
	}
	if err != nil {
		return model.FileSystemNode{}, err
	}

	b.l.Info("build complete",
		zap.String("path", path),
		zap.Stringer("id", node.Id),
		zap.Uint64("size", node.Size),
		zap.Bool("directory", node.IsDirectory),
	)
	return node, nil
}

// BuildFile uploads a single regular file and returns its leaf node
func (b *Builder) BuildFile(ctx context.Context, path string) (model.FileSystemNode, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.FileSystemNode{}, status.ErrNotFound.WrapMessage("open %q", path)
		}
		return model.FileSystemNode{}, status.ErrIO.WrapMessage("open %q: %w", path, err)
	}
	defer f.Close()

	res, err := b.store.PutBytes(ctx, f)
	if err != nil {
		if isCancellation(err) {
			return model.FileSystemNode{}, err
		}
		return model.FileSystemNode{}, status.ErrStore.WrapMessage("upload %q: %w", path, err)
	}

	b.l.Debug("file uploaded",
		zap.String("path", path),
		zap.Stringer("id", res.Id),
		zap.Uint64("size", res.Written),
		zap.Bool("duplicate", res.Found),
	)
	return model.FileSystemNode{
		Id:   res.Id,
		Name: filepath.Base(path),
		Size: res.Written,
	}, nil
}

// BuildDirectory builds the directory at path bottom-up: every
// immediate file (and, when recursive, every sub-directory) is built
// concurrently, then the collected links are materialized into the
// directory's own node. The first child failure wins and cancels the
// remaining in-flight children.
func (b *Builder) BuildDirectory(ctx context.Context, path string, recursive bool) (model.FileSystemNode, error) {
	entries, err := afero.ReadDir(b.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.FileSystemNode{}, status.ErrNotFound.WrapMessage("read dir %q", path)
		}
		return model.FileSystemNode{}, status.ErrIO.WrapMessage("read dir %q: %w", path, err)
	}

	proto, err := b.prototype(ctx)
	if err != nil {
		if isCancellation(err) {
			return model.FileSystemNode{}, err
		}
		return model.FileSystemNode{}, status.ErrStore.WrapMessage("empty directory prototype: %w", err)
	}

	selected := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			if recursive {
				selected = append(selected, entry)
			}
		case entry.Mode().IsRegular():
			selected = append(selected, entry)
		default:
			// symlinks and other irregular entries are not part of the DAG
			b.l.Debug("skipping irregular entry",
				zap.String("path", filepath.Join(path, entry.Name())),
				zap.String("mode", entry.Mode().String()),
			)
		}
	}

	nodes := make([]model.FileSystemNode, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxParallel)
	for i, entry := range selected {
		i, entry := i, entry
		g.Go(func() error {
			var (
				child model.FileSystemNode
				e     error
			)
			if entry.IsDir() {
				child, e = b.BuildDirectory(gctx, filepath.Join(path, entry.Name()), recursive)
			} else {
				child, e = b.BuildFile(gctx, filepath.Join(path, entry.Name()))
			}
			if e != nil {
				return e
			}
			nodes[i] = child
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return model.FileSystemNode{}, err
	}

	links := make([]model.FileSystemLink, 0, len(nodes))
	for _, child := range nodes {
		links = append(links, model.LinkTo(child))
	}
	model.SortLinks(links)

	res, err := b.store.PutDirectoryNode(ctx, proto, links)
	if err != nil {
		if isCancellation(err) {
			return model.FileSystemNode{}, err
		}
		return model.FileSystemNode{}, status.ErrStore.WrapMessage("materialize %q: %w", path, err)
	}

	b.l.Debug("directory materialized",
		zap.String("path", path),
		zap.Stringer("id", res.Id),
		zap.Int("links", len(links)),
	)
	return model.FileSystemNode{
		Id:          res.Id,
		Name:        filepath.Base(path),
		Size:        res.Written,
		IsDirectory: true,
		Links:       links,
	}, nil
}

// prototype fetches the shared empty-directory base node once. A failed
// fetch is retried on the next call rather than cached.
func (b *Builder) prototype(ctx context.Context) (*cas.Prototype, error) {
	b.protoMu.Lock()
	defer b.protoMu.Unlock()
	if b.proto != nil {
		return b.proto, nil
	}
	proto, err := b.store.EmptyDirectoryPrototype(ctx)
	if err != nil {
		return nil, err
	}
	b.proto = proto
	return proto, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
