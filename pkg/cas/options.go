package cas

import (
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/storage"
)

// Option to configure the content store
type Option func(*defaultStore)

// Backend specifies the backend blob store
func Backend(store storage.Store) Option {
	return func(d *defaultStore) {
		d.backend = store
	}
}

// Prefix sets a prefix on backend keys
func Prefix(prefix string) Option {
	return func(d *defaultStore) {
		d.prefix = prefix
	}
}

// HashFunction selects the multihash function used to derive content ids
func HashFunction(code uint64) Option {
	return func(d *defaultStore) {
		d.hashCode = code
	}
}

// VerifyHash makes node reads check the payload against its id
func VerifyHash(enabled bool) Option {
	return func(d *defaultStore) {
		d.verifyHash = enabled
	}
}

// Logger sets a logger on the content store
func Logger(l *zap.Logger) Option {
	return func(d *defaultStore) {
		if l != nil {
			d.l = l
		}
	}
}
