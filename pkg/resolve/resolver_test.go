package resolve

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/dag"
	dagstatus "github.com/dagfs/dagfs/pkg/dag/status"
	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/model"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

func buildFixture(t *testing.T) (cas.Store, model.FileSystemNode) {
	t.Helper()
	store := cas.New(
		cas.Backend(localfs.New(afero.NewMemMapFs())),
		cas.Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)),
	)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "root/a.txt", []byte("hello"), 0600))
	require.NoError(t, afero.WriteFile(fs, "root/sub/b.txt", []byte("world"), 0600))
	require.NoError(t, afero.WriteFile(fs, "root/sub/deep/c.txt", []byte("!"), 0600))

	b, err := dag.New(
		dag.Store(store),
		dag.FS(fs),
		dag.Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)),
	)
	require.NoError(t, err)
	root, err := b.Build(context.Background(), "root", true)
	require.NoError(t, err)
	return store, root
}

func testResolver(t *testing.T, store cas.Store) *Resolver {
	t.Helper()
	r, err := New(store, Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)))
	require.NoError(t, err)
	return r
}

func TestResolveNode(t *testing.T) {
	store, root := buildFixture(t)
	r := testResolver(t, store)
	ctx := context.Background()

	self, err := r.ResolveNode(ctx, root, ".")
	require.NoError(t, err)
	assert.True(t, root.Id.Equal(self.Id))

	file, err := r.ResolveNode(ctx, root, "a.txt")
	require.NoError(t, err)
	assert.False(t, file.IsDirectory)
	assert.Equal(t, uint64(5), file.Size)

	deep, err := r.ResolveNode(ctx, root, "sub/deep/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "c.txt", deep.Name)
	assert.Equal(t, uint64(1), deep.Size)

	sub, err := r.ResolveNode(ctx, root, "sub")
	require.NoError(t, err)
	assert.True(t, sub.IsDirectory)
	require.Len(t, sub.Links, 2)
	assert.Equal(t, "b.txt", sub.Links[0].Name)
	assert.Equal(t, "deep", sub.Links[1].Name)
}

func TestResolveNodeMisses(t *testing.T) {
	store, root := buildFixture(t)
	r := testResolver(t, store)
	ctx := context.Background()

	_, err := r.ResolveNode(ctx, root, "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dagstatus.ErrNotFound))

	// descending through a file is a miss, not a store error
	_, err = r.ResolveNode(ctx, root, "a.txt/nested")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dagstatus.ErrNotFound))
}

func TestReadFile(t *testing.T) {
	store, root := buildFixture(t)
	r := testResolver(t, store)
	ctx := context.Background()

	rdr, err := r.ReadFile(ctx, root, "sub/b.txt")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "world", string(b))

	_, err = r.ReadFile(ctx, root, "sub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dagstatus.ErrNotFound))
}

func TestResolverCache(t *testing.T) {
	store, root := buildFixture(t)
	r := testResolver(t, store)
	ctx := context.Background()

	_, err := r.ResolveNode(ctx, root, "sub/deep/c.txt")
	require.NoError(t, err)
	assert.NotZero(t, r.cache.Len())

	// second walk hits the cache
	_, err = r.ResolveNode(ctx, root, "sub/deep/c.txt")
	require.NoError(t, err)
}
