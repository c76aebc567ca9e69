package cas

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/model"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

func testStore(t *testing.T) (Store, storage.Store) {
	t.Helper()
	backend := localfs.New(afero.NewMemMapFs())
	store := New(
		Backend(backend),
		VerifyHash(true),
		Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)),
	)
	return store, backend
}

func TestPutBytesContentAddressing(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	res1, err := store.PutBytes(ctx, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, res1.Id.Defined())
	assert.Equal(t, uint64(5), res1.Written)
	assert.False(t, res1.Found)

	res2, err := store.PutBytes(ctx, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, res1.Id.Equal(res2.Id))
	assert.True(t, res2.Found)

	res3, err := store.PutBytes(ctx, strings.NewReader("world"))
	require.NoError(t, err)
	assert.False(t, res1.Id.Equal(res3.Id))
}

func TestPutBytesStagingCleanup(t *testing.T) {
	store, backend := testStore(t)
	ctx := context.Background()

	_, err := store.PutBytes(ctx, strings.NewReader("some payload"))
	require.NoError(t, err)

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1, "staging blob must be cleaned up")
}

func TestGetBytesRoundtrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	res, err := store.PutBytes(ctx, bytes.NewReader([]byte("roundtrip me")))
	require.NoError(t, err)

	rdr, err := store.GetBytes(ctx, res.Id)
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "roundtrip me", string(b))
}

func TestPutDirectoryNode(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	leaf, err := store.PutBytes(ctx, strings.NewReader("hello"))
	require.NoError(t, err)

	proto, err := store.EmptyDirectoryPrototype(ctx)
	require.NoError(t, err)

	links := []model.FileSystemLink{
		{Name: "a.txt", Id: leaf.Id, Size: leaf.Written},
	}
	res1, err := store.PutDirectoryNode(ctx, proto, links)
	require.NoError(t, err)
	assert.True(t, res1.Id.Defined())
	assert.NotZero(t, res1.Written)

	// identical link lists materialize to the same node
	res2, err := store.PutDirectoryNode(ctx, proto, links)
	require.NoError(t, err)
	assert.True(t, res1.Id.Equal(res2.Id))
	assert.True(t, res2.Found)

	back, err := store.GetNode(ctx, res1.Id)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "a.txt", back[0].Name)
	assert.True(t, leaf.Id.Equal(back[0].Id))
}

func TestEmptyDirectoryPrototype(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	p1, err := store.EmptyDirectoryPrototype(ctx)
	require.NoError(t, err)
	p2, err := store.EmptyDirectoryPrototype(ctx)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Empty(t, p1.Links())

	// the materialized empty directory is stable
	res1, err := store.PutDirectoryNode(ctx, p1, nil)
	require.NoError(t, err)
	res2, err := store.PutDirectoryNode(ctx, p1, nil)
	require.NoError(t, err)
	assert.True(t, res1.Id.Equal(res2.Id))
}

func TestGetNodeVerify(t *testing.T) {
	store, backend := testStore(t)
	ctx := context.Background()

	// hash some payload that is never actually stored, then plant a
	// different payload under its key
	victim, err := store.PutBytes(ctx, strings.NewReader("legit"))
	require.NoError(t, err)
	require.NoError(t, backend.Put(ctx, victim.Id.String(), strings.NewReader("tampered"), false))

	_, err = store.GetNode(ctx, victim.Id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupted))
}

func TestPutBytesCancelled(t *testing.T) {
	store, _ := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.PutBytes(ctx, strings.NewReader("never"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
