// Package kvstore is the client-resident persistent storage primitive: a
// flat map from stable string keys to serialized blobs.
package kvstore

import (
	"fmt"
)

// Store is implemented by every backend. Get reports a missing key with
// ok=false and a nil error.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver    string // sqlite | redis | memory
	Path      string // sqlite file
	RedisAddr string
	RedisDB   int
	Prefix    string // redis key prefix
}

// Open builds the backend named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "sqlite":
		return OpenSQLite(opts.Path)
	case "redis":
		return OpenRedis(opts.RedisAddr, opts.RedisDB, opts.Prefix)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
