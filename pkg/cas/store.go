package cas

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/model"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

// ErrCorrupted indicates that a payload read back from the backend does
// not hash to the id it was stored under
var ErrCorrupted = errors.New("payload does not match its content id")

var _ Store = &defaultStore{}

func defaultsForStore() *defaultStore {
	return &defaultStore{
		backend:  localfs.New(nil),
		hashCode: mh.SHA2_256,
		l:        dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
}

// New creates a content store over a backend blob store
func New(opts ...Option) Store {
	d := defaultsForStore()
	for _, apply := range opts {
		apply(d)
	}
	d.pather = func(id model.ContentId) string { return d.prefix + id.String() }
	return d
}

type defaultStore struct {
	backend    storage.Store
	prefix     string
	hashCode   uint64
	verifyHash bool
	pather     func(model.ContentId) string
	l          *zap.Logger

	protoOnce sync.Once
	proto     *Prototype

	stageSeq uint64
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (d *defaultStore) stageKey() string {
	seq := atomic.AddUint64(&d.stageSeq, 1)
	return fmt.Sprintf("%s.stage/%d.%d", d.prefix, time.Now().UnixNano(), seq)
}

func (d *defaultStore) sum(b []byte) (model.ContentId, error) {
	digest, err := mh.Sum(b, d.hashCode, -1)
	if err != nil {
		return model.ContentId{}, err
	}
	return model.NewContentId(cid.NewCidV1(cid.Raw, digest)), nil
}

func (d *defaultStore) PutBytes(ctx context.Context, src io.Reader) (PutRes, error) {
	if err := ctx.Err(); err != nil {
		return PutRes{}, err
	}

	hasher, err := mh.GetHasher(d.hashCode)
	if err != nil {
		return PutRes{}, err
	}
	counter := &countingReader{r: src}

	// spool through a staging key: the final key is only known once the
	// whole stream has been hashed
	stage := d.stageKey()
	if err = d.backend.Put(ctx, stage, io.TeeReader(counter, hasher), false); err != nil {
		return PutRes{}, err
	}
	defer func() {
		_ = d.backend.Delete(ctx, stage)
	}()

	digest, err := mh.Encode(hasher.Sum(nil), d.hashCode)
	if err != nil {
		return PutRes{}, err
	}
	id := model.NewContentId(cid.NewCidV1(cid.Raw, digest))
	res := PutRes{Id: id, Written: uint64(counter.n)}

	key := d.pather(id)
	has, err := d.backend.Has(ctx, key)
	if err != nil {
		return PutRes{}, err
	}
	if has {
		res.Found = true
		d.l.Debug("leaf already present", zap.Stringer("id", id))
		return res, nil
	}

	staged, err := d.backend.Get(ctx, stage)
	if err != nil {
		return PutRes{}, err
	}
	defer staged.Close()
	if err = d.backend.Put(ctx, key, staged, false); err != nil {
		return PutRes{}, err
	}
	d.l.Debug("leaf stored", zap.Stringer("id", id), zap.Uint64("size", res.Written))
	return res, nil
}

// putBlob stores an in-memory payload under its content id
func (d *defaultStore) putBlob(ctx context.Context, b []byte) (PutRes, error) {
	if err := ctx.Err(); err != nil {
		return PutRes{}, err
	}

	id, err := d.sum(b)
	if err != nil {
		return PutRes{}, err
	}
	res := PutRes{Id: id, Written: uint64(len(b))}

	key := d.pather(id)
	has, err := d.backend.Has(ctx, key)
	if err != nil {
		return PutRes{}, err
	}
	if has {
		res.Found = true
		return res, nil
	}
	if err = d.backend.Put(ctx, key, bytes.NewReader(b), false); err != nil {
		return PutRes{}, err
	}
	return res, nil
}

func (d *defaultStore) PutDirectoryNode(ctx context.Context, base *Prototype, links []model.FileSystemLink) (PutRes, error) {
	merged := base.Links()
	merged = append(merged, links...)

	payload, err := model.MarshalDirectoryPayload(model.DirectoryPayload{Links: merged})
	if err != nil {
		return PutRes{}, err
	}
	res, err := d.putBlob(ctx, payload)
	if err != nil {
		return PutRes{}, err
	}
	d.l.Debug("directory node stored",
		zap.Stringer("id", res.Id),
		zap.Int("links", len(merged)),
		zap.Bool("duplicate", res.Found),
	)
	return res, nil
}

func (d *defaultStore) EmptyDirectoryPrototype(ctx context.Context) (*Prototype, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.protoOnce.Do(func() {
		d.proto = &Prototype{}
	})
	return d.proto, nil
}

func (d *defaultStore) GetBytes(ctx context.Context, id model.ContentId) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.backend.Get(ctx, d.pather(id))
}

func (d *defaultStore) GetNode(ctx context.Context, id model.ContentId) ([]model.FileSystemLink, error) {
	rdr, err := d.GetBytes(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	b, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}

	if d.verifyHash {
		sum, e := d.sum(b)
		if e != nil {
			return nil, e
		}
		if !sum.Equal(id) {
			return nil, ErrCorrupted.WrapMessage("expected %s, payload hashes to %s", id, sum)
		}
	}

	payload, err := model.UnmarshalDirectoryPayload(b)
	if err != nil {
		return nil, err
	}
	return payload.Links, nil
}
