package dag

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
)

// Option to configure a tree builder
type Option func(*Builder)

// Store specifies the content store nodes are materialized through (required)
func Store(store cas.Store) Option {
	return func(b *Builder) {
		b.store = store
	}
}

// FS specifies the file system the builder walks. Defaults to the OS file system.
func FS(fs afero.Fs) Option {
	return func(b *Builder) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// MaxParallel bounds the number of concurrent child builds per directory level
func MaxParallel(n int) Option {
	return func(b *Builder) {
		b.maxParallel = n
	}
}

// Logger sets a logger on the builder
func Logger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.l = l
		}
	}
}
